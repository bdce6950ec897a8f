// Package world ties the interaction components to a tick-driven floor: an
// entity registry, the exclusive holder relation, spatial probes, and the
// fixed-order simulation step (re-targeting, queued inputs, machine timers,
// carry follow).
package world

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hakoniwa/officesim/config"
	"github.com/hakoniwa/officesim/game/agent"
	"github.com/hakoniwa/officesim/game/appliance"
)

type inputKind int

const (
	inputInteract inputKind = iota
	inputToggleGrab
	inputRelease
)

type queuedInput struct {
	agentID uuid.UUID
	kind    inputKind
}

// AgentRuntime bundles one agent entity with its interaction components.
type AgentRuntime struct {
	Entity     *Entity
	Targeter   *agent.Targeter
	Carrier    *agent.Carrier
	Dispatcher *agent.Dispatcher
}

// Floor is a single simulated office floor. One goroutine (Run, or the test
// calling Step) owns all mutation; public mutators only queue inputs, so
// concurrent interact/grab requests on the same machine are serialized by
// the step rather than raced.
//
// Event listeners run synchronously inside Step with the floor lock held.
// They may drive the emitting machine's request methods but must not call
// back into the Floor.
type Floor struct {
	mu  sync.RWMutex
	cfg config.GameConfig

	entities []*Entity // registration order = spatial probe iteration order
	byID     map[uuid.UUID]*Entity

	machines   map[uuid.UUID]*appliance.Machine
	agents     map[uuid.UUID]*AgentRuntime
	agentOrder []uuid.UUID

	holders *holderRelation
	pending []queuedInput

	stopCh chan struct{}
	logger *zap.Logger
}

// NewFloor creates an empty floor.
func NewFloor(cfg config.GameConfig, logger *zap.Logger) *Floor {
	return &Floor{
		cfg:      cfg,
		byID:     make(map[uuid.UUID]*Entity),
		machines: make(map[uuid.UUID]*appliance.Machine),
		agents:   make(map[uuid.UUID]*AgentRuntime),
		holders:  newHolderRelation(),
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

// AddAppliance places an interactable appliance with a brewing machine.
func (f *Floor) AddAppliance(name string, x, y float64) *appliance.Machine {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := &Entity{ID: uuid.New(), Name: name, Kind: KindAppliance, X: x, Y: y}
	f.register(e)
	m := appliance.NewMachine(e.ID, f.cfg.BrewTimeS, f.logger)
	f.machines[e.ID] = m
	f.logger.Info("appliance placed",
		zap.String("name", name),
		zap.String("entity", e.ID.String()),
		zap.Stringer("kind", e.Kind),
		zap.Float64("x", x), zap.Float64("y", y))
	return m
}

// AddProp places a portable prop.
func (f *Floor) AddProp(name string, x, y float64) *Entity {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := &Entity{ID: uuid.New(), Name: name, Kind: KindProp, X: x, Y: y}
	f.register(e)
	f.logger.Info("prop placed",
		zap.String("name", name),
		zap.String("entity", e.ID.String()),
		zap.Stringer("kind", e.Kind),
		zap.Float64("x", x), zap.Float64("y", y))
	return e
}

// AddAgent places an agent and wires its targeter, carrier and dispatcher.
// facingX/facingY need not be normalized; a zero vector defaults to +X.
func (f *Floor) AddAgent(name string, x, y, facingX, facingY float64) *AgentRuntime {
	f.mu.Lock()
	defer f.mu.Unlock()
	fx, fy := normalize(facingX, facingY)
	e := &Entity{ID: uuid.New(), Name: name, Kind: KindAgent, X: x, Y: y, FacingX: fx, FacingY: fy}
	f.register(e)

	targeter := agent.NewTargeter(e.ID, f.logger)
	carrier := agent.NewCarrier(e.ID, func() []agent.Candidate {
		return f.probeAround(e, f.cfg.GrabRadius)
	}, f.holders, f.logger)
	dispatcher := agent.NewDispatcher(e.ID, targeter, func(id uuid.UUID) agent.Interactor {
		if m := f.machines[id]; m != nil {
			return m
		}
		return nil
	}, f.logger)

	ar := &AgentRuntime{Entity: e, Targeter: targeter, Carrier: carrier, Dispatcher: dispatcher}
	f.agents[e.ID] = ar
	f.agentOrder = append(f.agentOrder, e.ID)
	f.logger.Info("agent placed",
		zap.String("name", name),
		zap.String("entity", e.ID.String()),
		zap.Stringer("kind", e.Kind),
		zap.Float64("x", x), zap.Float64("y", y))
	return ar
}

func (f *Floor) register(e *Entity) {
	f.entities = append(f.entities, e)
	f.byID[e.ID] = e
}

// Step advances the simulation by dt seconds in the fixed order: spatial
// re-targeting for every agent, queued discrete inputs in arrival order,
// machine timer advancement, then carried props follow their holder.
func (f *Floor) Step(dt float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, id := range f.agentOrder {
		ar := f.agents[id]
		ar.Targeter.Retarget(f.probeForward(ar.Entity))
	}

	pending := f.pending
	f.pending = nil
	for _, in := range pending {
		ar := f.agents[in.agentID]
		if ar == nil {
			continue
		}
		switch in.kind {
		case inputInteract:
			ar.Dispatcher.Interact()
		case inputToggleGrab:
			ar.Carrier.ToggleGrab()
		case inputRelease:
			ar.Carrier.Release()
		}
	}

	for _, e := range f.entities {
		if m := f.machines[e.ID]; m != nil {
			m.Advance(dt)
		}
	}

	for _, id := range f.agentOrder {
		ar := f.agents[id]
		held := ar.Carrier.Held()
		if held == uuid.Nil {
			continue
		}
		if p := f.byID[held]; p != nil {
			p.X = ar.Entity.X + ar.Entity.FacingX*f.cfg.CarryOffset
			p.Y = ar.Entity.Y + ar.Entity.FacingY*f.cfg.CarryOffset
		}
	}
}

// Run drives Step at the configured tick rate. Call in a goroutine.
func (f *Floor) Run() {
	interval := time.Duration(f.cfg.TickMs) * time.Millisecond
	dt := interval.Seconds()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	f.logger.Info("floor loop started", zap.Duration("tick", interval))
	for {
		select {
		case <-ticker.C:
			f.Step(dt)
		case <-f.stopCh:
			f.logger.Info("floor loop stopped")
			return
		}
	}
}

// Stop signals the floor loop to exit.
func (f *Floor) Stop() {
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
}

// ---- Discrete inputs (queued, handled on the next Step) ----

// Interact queues an interact request for the agent.
func (f *Floor) Interact(agentID uuid.UUID) { f.queue(agentID, inputInteract) }

// ToggleGrab queues a grab toggle for the agent.
func (f *Floor) ToggleGrab(agentID uuid.UUID) { f.queue(agentID, inputToggleGrab) }

// Release queues an unconditional release for the agent.
func (f *Floor) Release(agentID uuid.UUID) { f.queue(agentID, inputRelease) }

func (f *Floor) queue(agentID uuid.UUID, kind inputKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, queuedInput{agentID: agentID, kind: kind})
}

// ---- Read-only queries ----

// CurrentTarget returns the agent's focused entity, or uuid.Nil.
func (f *Floor) CurrentTarget(agentID uuid.UUID) uuid.UUID {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if ar := f.agents[agentID]; ar != nil {
		return ar.Targeter.Target()
	}
	return uuid.Nil
}

// HeldEntity returns the entity the agent is carrying, or uuid.Nil.
func (f *Floor) HeldEntity(agentID uuid.UUID) uuid.UUID {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if ar := f.agents[agentID]; ar != nil {
		return ar.Carrier.Held()
	}
	return uuid.Nil
}

// MachineState returns the brewing state of the appliance entity.
func (f *Floor) MachineState(entityID uuid.UUID) (appliance.State, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if m := f.machines[entityID]; m != nil {
		return m.State(), true
	}
	return 0, false
}

// Machine returns the brewing machine attached to the entity, or nil.
func (f *Floor) Machine(entityID uuid.UUID) *appliance.Machine {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.machines[entityID]
}

// Agent returns the runtime bundle for an agent, or nil.
func (f *Floor) Agent(agentID uuid.UUID) *AgentRuntime {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.agents[agentID]
}

// Owner returns the agent currently holding the entity, or uuid.Nil.
func (f *Floor) Owner(entityID uuid.UUID) uuid.UUID {
	return f.holders.holderOf(entityID)
}

// EntityPosition returns the entity's current position.
func (f *Floor) EntityPosition(entityID uuid.UUID) (x, y float64, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if e := f.byID[entityID]; e != nil {
		return e.X, e.Y, true
	}
	return 0, 0, false
}

// SetAgentPose moves an agent and updates its facing. The movement
// collaborator calls this between steps; re-targeting picks it up on the
// next Step.
func (f *Floor) SetAgentPose(agentID uuid.UUID, x, y, facingX, facingY float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ar := f.agents[agentID]
	if ar == nil {
		return
	}
	ar.Entity.X = x
	ar.Entity.Y = y
	ar.Entity.FacingX, ar.Entity.FacingY = normalize(facingX, facingY)
}

// EntityCount returns the number of registered entities.
func (f *Floor) EntityCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entities)
}

func normalize(x, y float64) (float64, float64) {
	n := math.Hypot(x, y)
	if n == 0 {
		return 1, 0
	}
	return x / n, y / n
}
