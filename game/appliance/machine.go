package appliance

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the brewing cycle state of a coffee machine.
type State int

const (
	StateIdle State = iota
	StateBrewing
	StateReady
	StateNeedsSugar
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBrewing:
		return "brewing"
	case StateReady:
		return "ready"
	case StateNeedsSugar:
		return "needs_sugar"
	default:
		return "unknown"
	}
}

// StateChangedFn is notified after every state transition.
type StateChangedFn func(machineID uuid.UUID, old, new State)

// BrewedFn is notified when a brew cycle completes, with the new coffee count.
type BrewedFn func(machineID uuid.UUID, count int)

// Machine is the timer-driven brewing state machine attached to one
// appliance entity. Out-of-order requests (e.g. StartBrewing while already
// Brewing) are silent no-ops: they neither mutate state nor emit events.
//
// Machine is not internally synchronized. The floor step goroutine owns all
// mutation; see world.Floor for the single-writer contract.
type Machine struct {
	entityID uuid.UUID

	state    State
	elapsed  float64 // seconds accumulated while Brewing; always 0 otherwise
	brewTime float64
	count    int  // completed brews awaiting collection
	hasSugar bool // set only while in NeedsSugar

	promptVisible bool

	stateChanged []StateChangedFn
	brewed       []BrewedFn

	logger *zap.Logger
}

// NewMachine creates an idle machine for the given appliance entity.
// brewTime is the brew duration in seconds and must not be negative.
func NewMachine(entityID uuid.UUID, brewTime float64, logger *zap.Logger) *Machine {
	m := &Machine{
		entityID: entityID,
		state:    StateIdle,
		brewTime: brewTime,
		logger:   logger,
	}
	m.refreshPrompt()
	return m
}

// EntityID returns the appliance entity this machine belongs to.
func (m *Machine) EntityID() uuid.UUID { return m.entityID }

// State returns the current brewing state.
func (m *Machine) State() State { return m.state }

// Elapsed returns the accumulated brew time. It is 0 unless Brewing.
func (m *Machine) Elapsed() float64 { return m.elapsed }

// CoffeeCount returns the number of uncollected completed brews.
func (m *Machine) CoffeeCount() int { return m.count }

// HasSugar reports whether sugar has been added to the current batch.
func (m *Machine) HasSugar() bool { return m.hasSugar }

// PromptVisible reports whether the approach affordance should be shown.
// It is a pure function of the current state: visible except while Brewing.
func (m *Machine) PromptVisible() bool { return m.promptVisible }

// OnStateChanged registers a listener for state transitions.
// Listeners run synchronously in registration order and must not register
// or remove listeners while being invoked.
func (m *Machine) OnStateChanged(fn StateChangedFn) {
	m.stateChanged = append(m.stateChanged, fn)
}

// OnBrewed registers a listener for completed brew cycles.
func (m *Machine) OnBrewed(fn BrewedFn) {
	m.brewed = append(m.brewed, fn)
}

// StartBrewing begins a brew cycle. No-op unless Idle.
func (m *Machine) StartBrewing() {
	if m.state != StateIdle {
		return
	}
	m.elapsed = 0
	m.transition(StateBrewing)
}

// CancelBrewing aborts an in-progress brew. No-op unless Brewing.
func (m *Machine) CancelBrewing() {
	if m.state != StateBrewing {
		return
	}
	m.elapsed = 0
	m.transition(StateIdle)
}

// AddSugar flags the finished batch for sugar. No-op unless Ready.
func (m *Machine) AddSugar() {
	if m.state != StateReady {
		return
	}
	m.hasSugar = true
	m.transition(StateNeedsSugar)
}

// Collect takes the finished coffee. No-op unless Ready or NeedsSugar.
func (m *Machine) Collect() {
	if m.state != StateReady && m.state != StateNeedsSugar {
		return
	}
	m.count = 0
	m.hasSugar = false
	m.transition(StateIdle)
}

// Advance accumulates dt seconds of brew time. When the accumulated time
// reaches the brew duration the machine transitions to Ready, increments the
// coffee count and emits a Brewed event exactly once for the cycle.
// No-op unless Brewing.
func (m *Machine) Advance(dt float64) {
	if m.state != StateBrewing {
		return
	}
	m.elapsed += dt
	if m.elapsed < m.brewTime {
		return
	}
	m.elapsed = 0
	m.count++
	m.transition(StateReady)
	for _, fn := range snapshot(m.brewed) {
		fn(m.entityID, m.count)
	}
}

// Interacted is the capability handoff point for routed interactions.
// Routing and notification are the dispatcher's job; the brewing requests
// above are invoked by the surrounding application, so this is a no-op.
func (m *Machine) Interacted(agentID uuid.UUID) {}

func (m *Machine) transition(to State) {
	old := m.state
	m.state = to
	m.refreshPrompt()
	m.logger.Debug("machine state changed",
		zap.String("machine", m.entityID.String()),
		zap.Stringer("from", old),
		zap.Stringer("to", to))
	for _, fn := range snapshot(m.stateChanged) {
		fn(m.entityID, old, to)
	}
}

func (m *Machine) refreshPrompt() {
	m.promptVisible = m.state != StateBrewing
}

// snapshot copies a listener slice so registrations made by a listener take
// effect on the next emission, not the current one.
func snapshot[T any](fns []T) []T {
	out := make([]T, len(fns))
	copy(out, fns)
	return out
}
