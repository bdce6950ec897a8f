package agent

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TargetFn is notified when an entity gains or loses interaction focus.
type TargetFn func(entityID uuid.UUID)

// Targeter maintains the current interaction target for one agent. It is a
// pure per-tick recomputation: Retarget selects the nearest interactable
// candidate and emits start/end events only on changes. It never performs an
// interaction itself.
type Targeter struct {
	agentID uuid.UUID
	target  uuid.UUID // uuid.Nil = no target

	started []TargetFn
	ended   []TargetFn

	logger *zap.Logger
}

// NewTargeter creates a targeter with no current target.
func NewTargeter(agentID uuid.UUID, logger *zap.Logger) *Targeter {
	return &Targeter{agentID: agentID, logger: logger}
}

// Target returns the currently focused entity, or uuid.Nil.
func (t *Targeter) Target() uuid.UUID { return t.target }

// OnTargetStarted registers a listener for target acquisition.
// Listeners run synchronously in registration order.
func (t *Targeter) OnTargetStarted(fn TargetFn) { t.started = append(t.started, fn) }

// OnTargetEnded registers a listener for target loss.
func (t *Targeter) OnTargetEnded(fn TargetFn) { t.ended = append(t.ended, fn) }

// Retarget re-evaluates the target from this tick's probe candidates.
// Candidates must be in the probe's stable iteration order; distance is the
// primary sort key and probe order only breaks ties, so an unstable probe
// ordering cannot cause target flapping between stationary entities.
//
// Event order on a target switch: TargetEnded(old) before TargetStarted(new).
// An unchanged selection emits nothing and mutates nothing.
func (t *Targeter) Retarget(candidates []Candidate) {
	selected := uuid.Nil
	best := 0.0
	for _, c := range candidates {
		if !c.Interactable || c.ID == t.agentID {
			continue
		}
		if selected == uuid.Nil || c.Distance < best {
			selected = c.ID
			best = c.Distance
		}
	}

	if selected == t.target {
		return
	}

	old := t.target
	t.target = selected
	if old != uuid.Nil {
		t.logger.Debug("target ended",
			zap.String("agent", t.agentID.String()),
			zap.String("entity", old.String()))
		for _, fn := range snapshot(t.ended) {
			fn(old)
		}
	}
	if selected != uuid.Nil {
		t.logger.Debug("target started",
			zap.String("agent", t.agentID.String()),
			zap.String("entity", selected.String()),
			zap.Float64("distance", best))
		for _, fn := range snapshot(t.started) {
			fn(selected)
		}
	}
}

// snapshot copies a listener slice so registrations made by a listener take
// effect on the next emission, not the current one.
func snapshot[T any](fns []T) []T {
	out := make([]T, len(fns))
	copy(out, fns)
	return out
}
