package entities

import "github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/valueobjects"

// Connection is a wire between two component pins. Pin identifiers are
// scoped to the referenced component's type; the graph does not check
// electrical pin compatibility, that is the simulator's concern.
type Connection struct {
	ID            valueobjects.ConnectionID
	FromComponent valueobjects.ComponentID
	FromPin       string
	ToComponent   valueobjects.ComponentID
	ToPin         string
	WirePoints    []valueobjects.Position
}

// NewConnection creates a direct (unrouted) wire between two pins
func NewConnection(fromComponent valueobjects.ComponentID, fromPin string, toComponent valueobjects.ComponentID, toPin string) *Connection {
	return &Connection{
		ID:            valueobjects.NewConnectionID(),
		FromComponent: fromComponent,
		FromPin:       fromPin,
		ToComponent:   toComponent,
		ToPin:         toPin,
		WirePoints:    []valueobjects.Position{},
	}
}

// References reports whether either endpoint is the given component
func (c *Connection) References(componentID valueobjects.ComponentID) bool {
	return c.FromComponent == componentID || c.ToComponent == componentID
}

// SetWirePoints replaces the intermediate routing coordinates
func (c *Connection) SetWirePoints(points []valueobjects.Position) {
	c.WirePoints = append([]valueobjects.Position(nil), points...)
}
