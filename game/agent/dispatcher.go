package agent

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LookupFn resolves an entity to its interaction capability, or nil when the
// entity has none (or no longer exists).
type LookupFn func(entityID uuid.UUID) Interactor

// Dispatcher routes an explicit interact request to whichever entity
// currently holds the agent's focus. It only routes and notifies; the
// capability's own request handlers carry the business logic and are invoked
// by the surrounding application.
type Dispatcher struct {
	agentID  uuid.UUID
	targeter *Targeter
	lookup   LookupFn

	started []TargetFn
	ended   []TargetFn

	logger *zap.Logger
}

// NewDispatcher creates a dispatcher bound to the agent's targeter.
func NewDispatcher(agentID uuid.UUID, targeter *Targeter, lookup LookupFn, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{agentID: agentID, targeter: targeter, lookup: lookup, logger: logger}
}

// OnInteractionStarted registers a listener invoked before the capability
// handoff. Listeners run synchronously in registration order.
func (d *Dispatcher) OnInteractionStarted(fn TargetFn) { d.started = append(d.started, fn) }

// OnInteractionEnded registers a listener invoked after the capability handoff.
func (d *Dispatcher) OnInteractionEnded(fn TargetFn) { d.ended = append(d.ended, fn) }

// Interact routes an interact request to the current target. Safe to call
// with no target: it is a no-op and emits nothing.
func (d *Dispatcher) Interact() {
	target := d.targeter.Target()
	if target == uuid.Nil {
		return
	}
	d.logger.Debug("interact",
		zap.String("agent", d.agentID.String()),
		zap.String("entity", target.String()))
	for _, fn := range snapshot(d.started) {
		fn(target)
	}
	if handler := d.lookup(target); handler != nil {
		handler.Interacted(d.agentID)
	}
	for _, fn := range snapshot(d.ended) {
		fn(target)
	}
}
