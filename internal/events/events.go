// Package events defines Xavier's typed event stream.
//
// The teacher has no typed event bus of its own; the closest analogs are
// internal/messaging's Send/inbox pattern and internal/yardmaster's
// inbox polling loop, which this package generalizes into a single
// closed set of event types delivered synchronously and in-order to
// subscribers, per spec §6.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Type names one of the closed set of event kinds the core publishes.
type Type string

const (
	SprintStarted   Type = "SprintStarted"
	TaskClaimed     Type = "TaskClaimed"
	AgentTakeover   Type = "AgentTakeover"
	PhaseChanged    Type = "PhaseChanged"
	TaskCompleted   Type = "TaskCompleted"
	TaskFailed      Type = "TaskFailed"
	Handoff         Type = "Handoff"
	SprintCompleted Type = "SprintCompleted"
	Error           Type = "Error"
)

// Event is one occurrence published on the stream. ID uses google/uuid
// rather than internal/idgen since events are never persisted entities
// with a collision-checked prefix — just ephemeral, ordered notices.
type Event struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	At        time.Time              `json:"at"`
	SprintID  string                 `json:"sprint_id,omitempty"`
	TaskID    string                 `json:"task_id,omitempty"`
	AgentName string                 `json:"agent_name,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// New constructs an Event of the given type, stamping a fresh ID and the
// current time.
func New(t Type, opts ...func(*Event)) Event {
	e := Event{ID: uuid.NewString(), Type: t, At: time.Now().UTC()}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func WithSprint(id string) func(*Event)  { return func(e *Event) { e.SprintID = id } }
func WithTask(id string) func(*Event)    { return func(e *Event) { e.TaskID = id } }
func WithAgent(name string) func(*Event) { return func(e *Event) { e.AgentName = name } }
func WithMessage(msg string) func(*Event) { return func(e *Event) { e.Message = msg } }
func WithData(data map[string]interface{}) func(*Event) {
	return func(e *Event) { e.Data = data }
}

// Subscriber receives events synchronously, in publish order.
type Subscriber func(Event)

// Bus fans out published events to every registered subscriber, in
// registration order, on the publishing goroutine — delivery is
// synchronous per spec §6, so a slow subscriber blocks the publisher by
// design rather than introducing unordered, buffered delivery.
type Bus struct {
	subscribers []Subscriber
}

// NewBus constructs an empty event bus.
func NewBus() *Bus { return &Bus{} }

// Subscribe registers a callback to receive every future published
// event.
func (b *Bus) Subscribe(s Subscriber) {
	b.subscribers = append(b.subscribers, s)
}

// Publish delivers e to every subscriber, in registration order.
func (b *Bus) Publish(e Event) {
	for _, s := range b.subscribers {
		s(e)
	}
}
