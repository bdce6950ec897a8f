// Package agent implements the per-agent interaction components: the
// proximity target selector, the interaction dispatcher and the grab/carry
// controller. The components are wired to a floor through narrow capability
// interfaces so they stay independent of the world representation.
package agent

import "github.com/google/uuid"

// Candidate is one entity returned by a spatial probe, in the probe's
// stable iteration order. Distance is the Euclidean distance from the
// probing agent at query time.
type Candidate struct {
	ID           uuid.UUID
	Distance     float64
	Interactable bool // entity carries a brewing state machine
	Held         bool // entity is currently held by some agent
}

// Interactor is the capability interface the dispatcher routes to. Any
// interactable kind can sit behind it; the dispatcher never type-checks
// concrete kinds.
type Interactor interface {
	Interacted(agentID uuid.UUID)
}

// HolderTable is the exclusive holder relation maintained by the floor:
// at most one agent holds a given entity at a time.
type HolderTable interface {
	// Hold records agentID as the holder of entityID. Returns false if the
	// entity is already held (by any agent), leaving the relation unchanged.
	Hold(entityID, agentID uuid.UUID) bool
	// Unhold clears the relation if agentID is the current holder.
	Unhold(entityID, agentID uuid.UUID)
}
