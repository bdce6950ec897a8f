package world

import "github.com/google/uuid"

// Kind classifies floor entities for capability filtering.
type Kind int

const (
	KindAgent     Kind = iota // a character with targeting/carry components
	KindAppliance             // an interactable carrying a brewing machine
	KindProp                  // a portable object with no capability
)

func (k Kind) String() string {
	switch k {
	case KindAgent:
		return "agent"
	case KindAppliance:
		return "appliance"
	case KindProp:
		return "prop"
	default:
		return "unknown"
	}
}

// Entity is one object on the floor: opaque identity plus a world pose.
// Position and facing are guarded by the floor lock; read them through the
// floor's accessors. Ownership is not a field here; the floor keeps it as an
// explicit holder relation so it can be validated.
type Entity struct {
	ID   uuid.UUID
	Name string
	Kind Kind

	X, Y float64
	// Unit facing vector; meaningful for agents (probe direction, carry offset).
	FacingX, FacingY float64
}
