package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the services.
const (
	TypeQueryCompleted = "query.completed"
	TypeScanRequested  = "scan.requested"
)

// Event is a notification that something happened, with a JSON payload whose
// shape depends on Type.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// QueryCompleted is the payload of TypeQueryCompleted.
type QueryCompleted struct {
	QueryID          uuid.UUID `json:"query_id"`
	FarmerID         uuid.UUID `json:"farmer_id"`
	Channel          string    `json:"channel"`
	Language         string    `json:"language"`
	Category         string    `json:"category"`
	Source           string    `json:"source"`
	Confidence       float64   `json:"confidence"`
	Success          bool      `json:"success"`
	ProcessingMillis int64     `json:"processing_ms"`
	Question         string    `json:"question"`
	Advice           string    `json:"advice"`
	CreatedAt        time.Time `json:"created_at"`
}

// ScanRequested is the payload of TypeScanRequested.
type ScanRequested struct {
	ScanID   uuid.UUID `json:"scan_id"`
	FarmerID uuid.UUID `json:"farmer_id"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an Event of the given type with payload serialized as JSON.
func NewEvent(eventType string, payload any) (*Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   b,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler processes events. Handlers ignore types they do not handle.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter publishes events to registered handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a plain function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}
