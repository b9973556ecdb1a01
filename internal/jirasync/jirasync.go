// Package jirasync defines the external-collaborator contract for an
// optional Jira synchronization module (spec.md §4.9). The sync module
// itself is out of scope — spec.md's top-level Non-goals name it an
// external collaborator, interacting with the core only through these
// contracts — so this package carries no Jira SDK or business logic of
// its own, only the inbound queue interface and outbound hook the core
// exposes for such a module to bind to.
package jirasync

// ItemUpdate is one inbound "item updated" event normalized to Xavier's
// internal model, per spec.md §4.9: "a queue interface for inbound item
// updated events with fields normalized to the internal model."
type ItemUpdate struct {
	Kind       string // "story", "task", or "bug"
	ID         string // Xavier entity ID, e.g. "US-12"
	Status     string // normalized to Xavier's status vocabulary
	ExternalID string // the Jira issue key the update originated from
}

// InboundQueue is satisfied by an external Jira-sync module's event
// source. The core only consumes it — it never implements InboundQueue
// itself, since producing Jira updates is the sync module's job.
type InboundQueue interface {
	// Next blocks until the next normalized item update is available, or
	// returns ok=false once the queue is closed.
	Next() (update ItemUpdate, ok bool)
}

// StateChange describes one status transition the core observed (Kind
// names the entity, e.g. "story", "task" or "sprint"), for an external
// sync module to relay outward.
type StateChange struct {
	Kind      string
	ID        string
	OldStatus string
	NewStatus string
}

// OutboundHook receives every state change passed to Dispatcher.Fire; the
// façade fires only sprint transitions.
// Registering one does not enable any Jira behavior by itself — what a
// hook does with a StateChange is entirely the external module's concern.
type OutboundHook func(StateChange)

// Dispatcher is the core-side half of the contract: it holds zero or
// more outbound hooks and fires them synchronously, in registration
// order, on every state change. This mirrors internal/events.Bus's
// synchronous delivery discipline, but is kept as its own narrow type
// rather than built on events.Bus directly — the Jira contract must stay
// stable even as the general event stream's Type set grows.
type Dispatcher struct {
	hooks []OutboundHook
}

// NewDispatcher constructs an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds hook to the set fired by every future state change.
func (d *Dispatcher) Register(hook OutboundHook) {
	d.hooks = append(d.hooks, hook)
}

// Fire delivers change to every registered hook, in registration order.
func (d *Dispatcher) Fire(change StateChange) {
	for _, h := range d.hooks {
		h(change)
	}
}
