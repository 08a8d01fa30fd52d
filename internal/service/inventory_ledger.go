package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xtown-XT/va-erp-sub000/internal/model"
	"github.com/Xtown-XT/va-erp-sub000/internal/repository"
)

// ── Inventory errors ──

var (
	ErrItemNotFound        = errors.New("inventory item not found")
	ErrInsufficientBalance = errors.New("insufficient inventory balance")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
)

// InsufficientBalanceError names the item that could not cover a fit.
type InsufficientBalanceError struct {
	ItemID    string
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ItemName, e.Requested, e.Available)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// inventoryLedger guards item balances. It has no public surface; fits go through it.
type inventoryLedger struct {
	logger *zap.Logger
}

func newInventoryLedger(logger *zap.Logger) *inventoryLedger {
	return &inventoryLedger{logger: logger}
}

// consume locks the item and moves quantity from balance to outward.
// The balance is never clamped: a short item fails the whole call.
func (l *inventoryLedger) consume(ctx context.Context, repo *repository.Repository, itemID string, quantity int, callerID string) (*model.InventoryItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := repo.Inventory.GetByIDForUpdate(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		l.logger.Error("lock inventory item failed", zap.String("item_id", itemID), zap.Error(err))
		return nil, err
	}

	if item.Balance < quantity {
		return nil, &InsufficientBalanceError{
			ItemID:    item.ItemID,
			ItemName:  item.Name,
			Requested: quantity,
			Available: item.Balance,
		}
	}

	item.Balance -= quantity
	item.Outward += quantity
	item.UpdatedBy = &callerID

	if err := repo.Inventory.UpdateStock(ctx, item); err != nil {
		l.logger.Error("update inventory balance failed", zap.String("item_id", itemID), zap.Error(err))
		return nil, err
	}
	return item, nil
}
