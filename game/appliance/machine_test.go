package appliance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMachine(brewTime float64) *Machine {
	return NewMachine(uuid.New(), brewTime, zap.NewNop())
}

// recorder captures state transitions and brewed events for assertions.
type recorder struct {
	transitions [][2]State
	brews       []int
}

func (r *recorder) attach(m *Machine) {
	m.OnStateChanged(func(_ uuid.UUID, old, new State) {
		r.transitions = append(r.transitions, [2]State{old, new})
	})
	m.OnBrewed(func(_ uuid.UUID, count int) {
		r.brews = append(r.brews, count)
	})
}

func TestMachine_InitialState(t *testing.T) {
	m := newTestMachine(3.0)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, m.CoffeeCount())
	assert.False(t, m.HasSugar())
	assert.True(t, m.PromptVisible())
}

func TestMachine_StartBrewing_FromIdle(t *testing.T) {
	m := newTestMachine(3.0)
	rec := &recorder{}
	rec.attach(m)

	m.StartBrewing()
	assert.Equal(t, StateBrewing, m.State())
	assert.Equal(t, 0.0, m.Elapsed())
	assert.False(t, m.PromptVisible())
	require.Len(t, rec.transitions, 1)
	assert.Equal(t, [2]State{StateIdle, StateBrewing}, rec.transitions[0])
}

func TestMachine_StartBrewing_WhileBrewing_NoOp(t *testing.T) {
	m := newTestMachine(3.0)
	m.StartBrewing()
	m.Advance(1.0)

	rec := &recorder{}
	rec.attach(m)
	m.StartBrewing()

	assert.Equal(t, StateBrewing, m.State())
	assert.Equal(t, 1.0, m.Elapsed()) // timer must not reset
	assert.Empty(t, rec.transitions)
}

// brew_time_s=3 with 1s ticks: Brewing(1) → Brewing(2) → Ready exactly at t=3,
// with a single Brewed event carrying count 1.
func TestMachine_BrewCycle_Timing(t *testing.T) {
	m := newTestMachine(3.0)
	rec := &recorder{}
	rec.attach(m)

	m.StartBrewing()

	m.Advance(1.0)
	assert.Equal(t, StateBrewing, m.State())
	assert.Equal(t, 1.0, m.Elapsed())

	m.Advance(1.0)
	assert.Equal(t, StateBrewing, m.State())
	assert.Equal(t, 2.0, m.Elapsed())
	assert.Empty(t, rec.brews)

	m.Advance(1.0)
	assert.Equal(t, StateReady, m.State())
	assert.Equal(t, 0.0, m.Elapsed())
	assert.Equal(t, 1, m.CoffeeCount())
	assert.True(t, m.PromptVisible())
	require.Equal(t, []int{1}, rec.brews)

	// Further ticks in Ready must not brew again.
	m.Advance(5.0)
	assert.Equal(t, StateReady, m.State())
	assert.Equal(t, []int{1}, rec.brews)
}

func TestMachine_Advance_PartialTicksAccumulate(t *testing.T) {
	m := newTestMachine(1.0)
	rec := &recorder{}
	rec.attach(m)

	m.StartBrewing()
	m.Advance(0.4)
	m.Advance(0.4)
	assert.Equal(t, StateBrewing, m.State())
	m.Advance(0.4) // cumulative 1.2 >= 1.0
	assert.Equal(t, StateReady, m.State())
	assert.Equal(t, []int{1}, rec.brews)
}

func TestMachine_Advance_ZeroThreshold_CompletesOnFirstTick(t *testing.T) {
	m := newTestMachine(0)
	m.StartBrewing()
	m.Advance(0.05)
	assert.Equal(t, StateReady, m.State())
	assert.Equal(t, 1, m.CoffeeCount())
}

func TestMachine_CancelBrewing(t *testing.T) {
	m := newTestMachine(3.0)
	m.StartBrewing()
	m.Advance(2.0)

	m.CancelBrewing()
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0.0, m.Elapsed())
	assert.Equal(t, 0, m.CoffeeCount())

	// Restarting brews from scratch.
	m.StartBrewing()
	m.Advance(2.0)
	assert.Equal(t, StateBrewing, m.State())
	m.Advance(1.0)
	assert.Equal(t, StateReady, m.State())
}

func TestMachine_CancelBrewing_WhileIdle_NoOp(t *testing.T) {
	m := newTestMachine(3.0)
	rec := &recorder{}
	rec.attach(m)
	m.CancelBrewing()
	assert.Equal(t, StateIdle, m.State())
	assert.Empty(t, rec.transitions)
}

func TestMachine_AddSugar_FromReady(t *testing.T) {
	m := newTestMachine(1.0)
	m.StartBrewing()
	m.Advance(1.0)
	require.Equal(t, StateReady, m.State())

	m.AddSugar()
	assert.Equal(t, StateNeedsSugar, m.State())
	assert.True(t, m.HasSugar())
	assert.True(t, m.PromptVisible())
}

func TestMachine_AddSugar_WhileIdle_NoOp(t *testing.T) {
	m := newTestMachine(3.0)
	rec := &recorder{}
	rec.attach(m)

	m.AddSugar()
	assert.Equal(t, StateIdle, m.State())
	assert.False(t, m.HasSugar())
	assert.Empty(t, rec.transitions)
}

func TestMachine_Collect_FromReady(t *testing.T) {
	m := newTestMachine(1.0)
	m.StartBrewing()
	m.Advance(1.0)

	m.Collect()
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, m.CoffeeCount())
	assert.False(t, m.HasSugar())
}

func TestMachine_Collect_FromNeedsSugar(t *testing.T) {
	m := newTestMachine(1.0)
	m.StartBrewing()
	m.Advance(1.0)
	m.AddSugar()

	m.Collect()
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, m.CoffeeCount())
	assert.False(t, m.HasSugar())
}

func TestMachine_Collect_WhileBrewing_NoOp(t *testing.T) {
	m := newTestMachine(3.0)
	m.StartBrewing()
	m.Advance(1.0)

	rec := &recorder{}
	rec.attach(m)
	m.Collect()

	assert.Equal(t, StateBrewing, m.State())
	assert.Equal(t, 1.0, m.Elapsed())
	assert.Empty(t, rec.transitions)
}

func TestMachine_StartBrewing_WhileReady_NoOp(t *testing.T) {
	m := newTestMachine(1.0)
	m.StartBrewing()
	m.Advance(1.0)
	require.Equal(t, StateReady, m.State())

	rec := &recorder{}
	rec.attach(m)
	m.StartBrewing()

	assert.Equal(t, StateReady, m.State())
	assert.Equal(t, 1, m.CoffeeCount())
	assert.Empty(t, rec.transitions)
}

func TestMachine_Brewed_CountPerCycle(t *testing.T) {
	// Collect resets the count, so each completed cycle reports count 1.
	m := newTestMachine(1.0)
	var counts []int
	m.OnBrewed(func(_ uuid.UUID, c int) { counts = append(counts, c) })

	m.StartBrewing()
	m.Advance(1.0)
	m.Collect()
	m.StartBrewing()
	m.Advance(1.0)

	assert.Equal(t, []int{1, 1}, counts)
}

func TestMachine_Listeners_RegistrationOrder(t *testing.T) {
	m := newTestMachine(3.0)
	var order []int
	m.OnStateChanged(func(uuid.UUID, State, State) { order = append(order, 1) })
	m.OnStateChanged(func(uuid.UUID, State, State) { order = append(order, 2) })
	m.OnStateChanged(func(uuid.UUID, State, State) { order = append(order, 3) })

	m.StartBrewing()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestMachine_Listener_RegisteredDuringDispatch_DeferredToNextEmission(t *testing.T) {
	m := newTestMachine(3.0)
	var calls []string
	m.OnStateChanged(func(uuid.UUID, State, State) {
		calls = append(calls, "outer")
		if len(calls) == 1 {
			m.OnStateChanged(func(uuid.UUID, State, State) {
				calls = append(calls, "inner")
			})
		}
	})

	m.StartBrewing()
	assert.Equal(t, []string{"outer"}, calls)

	m.CancelBrewing()
	assert.Equal(t, []string{"outer", "outer", "inner"}, calls)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "brewing", StateBrewing.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "needs_sugar", StateNeedsSugar.String())
}
