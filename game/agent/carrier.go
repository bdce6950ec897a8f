package agent

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProbeFn returns the entities overlapping the grab volume around the agent,
// in the probe's stable iteration order.
type ProbeFn func() []Candidate

// Carrier implements the toggle-based grab/carry mechanic for one agent.
// Acquisition takes the first eligible candidate in probe order — the grab
// volume is small, so no distance sort is applied. Release is unconditional
// and always succeeds.
type Carrier struct {
	agentID uuid.UUID
	probe   ProbeFn
	holders HolderTable

	held         uuid.UUID // uuid.Nil = nothing held
	carryVisible bool

	logger *zap.Logger
}

// NewCarrier creates a carrier holding nothing.
func NewCarrier(agentID uuid.UUID, probe ProbeFn, holders HolderTable, logger *zap.Logger) *Carrier {
	return &Carrier{agentID: agentID, probe: probe, holders: holders, logger: logger}
}

// Held returns the held entity, or uuid.Nil.
func (c *Carrier) Held() uuid.UUID { return c.held }

// CarryVisible reports whether the carried-prop visual should be shown.
func (c *Carrier) CarryVisible() bool { return c.carryVisible }

// ToggleGrab releases the held entity if there is one, otherwise tries to
// grab the first free entity overlapping the grab volume. An acquisition
// attempt with no eligible candidate is a no-op.
func (c *Carrier) ToggleGrab() {
	if c.held != uuid.Nil {
		c.release()
		return
	}
	for _, cand := range c.probe() {
		if cand.ID == c.agentID || cand.Held {
			continue
		}
		if !c.holders.Hold(cand.ID, c.agentID) {
			// Lost the race to another holder; try the next candidate.
			continue
		}
		c.held = cand.ID
		c.carryVisible = true
		c.logger.Debug("grabbed",
			zap.String("agent", c.agentID.String()),
			zap.String("entity", cand.ID.String()))
		return
	}
}

// Release drops the held entity. Idempotent: a release with nothing held is
// a no-op.
func (c *Carrier) Release() {
	if c.held == uuid.Nil {
		return
	}
	c.release()
}

func (c *Carrier) release() {
	c.holders.Unhold(c.held, c.agentID)
	c.logger.Debug("released",
		zap.String("agent", c.agentID.String()),
		zap.String("entity", c.held.String()))
	c.held = uuid.Nil
	c.carryVisible = false
}
