package mq

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope every domain event is published in.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	TraceID    string          `json:"trace_id,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent 把 payload 序列化进信封
func NewEvent(eventType, traceID string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		TraceID:    traceID,
		Data:       data,
	}, nil
}
