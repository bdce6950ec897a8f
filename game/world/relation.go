package world

import (
	"sync"

	"github.com/google/uuid"
)

// holderRelation is the exclusive entity→holder table. Holding is a relation,
// not an owner pointer on the entity, so the single-holder invariant can be
// validated instead of assumed.
//
// It carries its own lock so rendering/physics collaborators can read it
// without going through the floor lock.
type holderRelation struct {
	mu       sync.RWMutex
	byEntity map[uuid.UUID]uuid.UUID
}

func newHolderRelation() *holderRelation {
	return &holderRelation{byEntity: make(map[uuid.UUID]uuid.UUID)}
}

// Hold records agentID as the holder of entityID. Returns false if the
// entity is already held, leaving the relation unchanged.
func (h *holderRelation) Hold(entityID, agentID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, taken := h.byEntity[entityID]; taken {
		return false
	}
	h.byEntity[entityID] = agentID
	return true
}

// Unhold clears the relation if agentID is the current holder.
func (h *holderRelation) Unhold(entityID, agentID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byEntity[entityID] == agentID {
		delete(h.byEntity, entityID)
	}
}

// holderOf returns the holding agent for entityID, or uuid.Nil.
func (h *holderRelation) holderOf(entityID uuid.UUID) uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.byEntity[entityID]
}

// isHeld reports whether any agent holds entityID.
func (h *holderRelation) isHeld(entityID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, taken := h.byEntity[entityID]
	return taken
}
