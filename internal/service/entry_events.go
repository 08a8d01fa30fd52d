package service

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Xtown-XT/va-erp-sub000/internal/dto"
	"github.com/Xtown-XT/va-erp-sub000/internal/model"
)

// eventRecorder collects audit events during a daily entry transaction;
// they are written in one batch just before commit.
type eventRecorder struct {
	entryID  string
	callerID string
	events   []model.ShiftEntryEvent
}

func newEventRecorder(entryID, callerID string) *eventRecorder {
	return &eventRecorder{entryID: entryID, callerID: callerID}
}

func (r *eventRecorder) add(eventType model.EntryEventType, payload datatypes.JSONMap) {
	var createdBy *string
	if r.callerID != "" {
		createdBy = &r.callerID
	}
	r.events = append(r.events, model.ShiftEntryEvent{
		ShiftEntryID: r.entryID,
		EventType:    eventType,
		Payload:      payload,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
	})
}

func (r *eventRecorder) count(eventType model.EntryEventType) int {
	n := 0
	for _, e := range r.events {
		if e.EventType == eventType {
			n++
		}
	}
	return n
}

func toEntryEventResponse(e *model.ShiftEntryEvent) dto.EntryEventResponse {
	return dto.EntryEventResponse{
		ID:        e.EventID,
		EventType: string(e.EventType),
		Payload:   e.Payload,
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}
