package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventValidationStart EventType = "validation_start"
	EventValidationEnd   EventType = "validation_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ValidationEvent describes one validation call.
type ValidationEvent struct {
	EventBase
	Source   string        `json:"source,omitempty"` // file name or request id, when known
	Class    string        `json:"class,omitempty"`  // top-level $class, when it could be read
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// ErrorKind returns the kind of the failure, or 0 on success.
func (e *ValidationEvent) ErrorKind() ErrorKind {
	if e.Err == nil {
		return 0
	}
	return KindOf(e.Err)
}

// LifecycleHooks defines callbacks for validator observability.
type LifecycleHooks struct {
	OnValidationStart func(context.Context, *ValidationEvent)
	OnValidationEnd   func(context.Context, *ValidationEvent)
}
