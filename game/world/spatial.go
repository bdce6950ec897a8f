package world

import (
	"math"

	"github.com/hakoniwa/officesim/game/agent"
)

// probeForward sweeps a segment of length cfg.InteractionRange along the
// agent's facing with a lateral tolerance of cfg.ProbeRadius, so aim does
// not need to be exact. Results are in entity registration order, which is the
// stable iteration order the targeter uses as a tie-break. Caller must hold
// the floor lock.
func (f *Floor) probeForward(src *Entity) []agent.Candidate {
	var out []agent.Candidate
	ax, ay := src.X, src.Y
	bx := ax + src.FacingX*f.cfg.InteractionRange
	by := ay + src.FacingY*f.cfg.InteractionRange
	for _, e := range f.entities {
		if e.ID == src.ID {
			continue
		}
		if segmentDistance(e.X, e.Y, ax, ay, bx, by) > f.cfg.ProbeRadius {
			continue
		}
		dist := math.Hypot(e.X-ax, e.Y-ay)
		if dist > f.cfg.InteractionRange {
			continue
		}
		out = append(out, agent.Candidate{
			ID:           e.ID,
			Distance:     dist,
			Interactable: f.machines[e.ID] != nil,
			Held:         f.holders.isHeld(e.ID),
		})
	}
	return out
}

// probeAround returns every entity within radius of the agent, in entity
// registration order. Used for the grab volume. Caller must hold the floor
// lock.
func (f *Floor) probeAround(src *Entity, radius float64) []agent.Candidate {
	var out []agent.Candidate
	for _, e := range f.entities {
		dist := math.Hypot(e.X-src.X, e.Y-src.Y)
		if dist > radius {
			continue
		}
		out = append(out, agent.Candidate{
			ID:           e.ID,
			Distance:     dist,
			Interactable: f.machines[e.ID] != nil,
			Held:         f.holders.isHeld(e.ID),
		})
	}
	return out
}

// segmentDistance returns the distance from point (px, py) to the segment
// (ax, ay)-(bx, by).
func segmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}
