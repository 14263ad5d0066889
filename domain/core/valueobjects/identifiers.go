package valueobjects

import "github.com/google/uuid"

// ComponentID uniquely identifies a placed component within a circuit.
// IDs are random UUIDs, so they stay unique across delete/re-add cycles
// and across rapid successive allocations.
type ComponentID string

// NewComponentID allocates a fresh ComponentID
func NewComponentID() ComponentID {
	return ComponentID(uuid.New().String())
}

// String returns the string representation
func (id ComponentID) String() string {
	return string(id)
}

// IsZero reports whether the ID is unset
func (id ComponentID) IsZero() bool {
	return id == ""
}

// ConnectionID uniquely identifies a wire within a circuit
type ConnectionID string

// NewConnectionID allocates a fresh ConnectionID
func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.New().String())
}

// String returns the string representation
func (id ConnectionID) String() string {
	return string(id)
}

// IsZero reports whether the ID is unset
func (id ConnectionID) IsZero() bool {
	return id == ""
}

// CircuitID identifies a persisted circuit. It is assigned by the
// persistence service on first save; an empty value means the circuit
// has never been saved.
type CircuitID string

// NewCircuitID allocates a fresh CircuitID
func NewCircuitID() CircuitID {
	return CircuitID(uuid.New().String())
}

// String returns the string representation
func (id CircuitID) String() string {
	return string(id)
}

// IsZero reports whether the circuit has not been persisted yet
func (id CircuitID) IsZero() bool {
	return id == ""
}
