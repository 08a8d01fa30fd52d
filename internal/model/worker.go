package model

import "github.com/shopspring/decimal"

// Worker an employee on the roster, table workers
type Worker struct {
	EmployeeID     string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	Name           string          `gorm:"type:varchar(120);not null"                     json:"name"`
	EmpCode        string          `gorm:"type:varchar(30)"                               json:"emp_code,omitempty"`
	Designation    string          `gorm:"type:varchar(60)"                               json:"designation,omitempty"`
	AdvancedAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"          json:"advanced_amount"` // wage advance still owed, floor 0
	VersionedModel
}

func (Worker) TableName() string { return "workers" }
