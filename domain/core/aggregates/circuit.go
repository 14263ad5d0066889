package aggregates

import (
	"time"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/catalog"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/entities"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/valueobjects"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/events"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

// maxComponents bounds the size of a single circuit document
const maxComponents = 1000

// Circuit is the aggregate root for one circuit document: the placed
// components, the wires between their pins, and the invariants that keep
// the two consistent. All mutation goes through the methods below; no
// operation ever leaves the circuit half-updated.
type Circuit struct {
	id          valueobjects.CircuitID
	name        string
	description string
	isPublic    bool
	components  map[valueobjects.ComponentID]*entities.Component
	order       []valueobjects.ComponentID
	connections map[valueobjects.ConnectionID]*entities.Connection
	connOrder   []valueobjects.ConnectionID
	metadata    map[string]interface{}
	createdAt   time.Time
	updatedAt   time.Time
	events      []events.DomainEvent
}

// ComponentPatch carries the mutable component fields for a partial
// update. Nil fields are left unchanged. Identity and type are not here
// on purpose: they are immutable.
type ComponentPatch struct {
	Name       *string
	Position   *valueobjects.Position
	Rotation   *float64
	Properties catalog.PropertySet
}

// NewCircuit creates a new, empty, not-yet-persisted circuit
func NewCircuit(name string) *Circuit {
	if name == "" {
		name = "Untitled Circuit"
	}

	now := time.Now()

	// The created event is published by the service at first save, once
	// the circuit has an identity; an unsaved circuit has no ID to carry.
	return &Circuit{
		name:        name,
		components:  make(map[valueobjects.ComponentID]*entities.Component),
		connections: make(map[valueobjects.ConnectionID]*entities.Connection),
		metadata:    make(map[string]interface{}),
		createdAt:   now,
		updatedAt:   now,
		events:      []events.DomainEvent{},
	}
}

// ID returns the persisted circuit identifier; zero for a new circuit
func (c *Circuit) ID() valueobjects.CircuitID {
	return c.id
}

// Name returns the circuit's name
func (c *Circuit) Name() string {
	return c.name
}

// Description returns the circuit's description
func (c *Circuit) Description() string {
	return c.description
}

// IsPublic reports the circuit's visibility
func (c *Circuit) IsPublic() bool {
	return c.isPublic
}

// Metadata returns a deep copy of the open extension mapping; nested
// maps and slices are copied too, so snapshot holders cannot reach the
// live circuit's metadata
func (c *Circuit) Metadata() map[string]interface{} {
	return cloneMetadata(c.metadata)
}

// CreatedAt returns when the circuit was created
func (c *Circuit) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the circuit was last mutated
func (c *Circuit) UpdatedAt() time.Time {
	return c.updatedAt
}

// SetName updates the circuit's name
func (c *Circuit) SetName(name string) {
	c.name = name
	c.touch()
}

// SetDescription updates the circuit's description
func (c *Circuit) SetDescription(description string) {
	c.description = description
	c.touch()
}

// SetPublic updates the circuit's visibility
func (c *Circuit) SetPublic(public bool) {
	c.isPublic = public
	c.touch()
}

// SetMetadata replaces the extension mapping
func (c *Circuit) SetMetadata(metadata map[string]interface{}) {
	c.metadata = cloneMetadata(metadata)
	c.touch()
}

// Components returns the placed components in insertion order
func (c *Circuit) Components() []*entities.Component {
	out := make([]*entities.Component, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.components[id])
	}
	return out
}

// Connections returns the wires in insertion order
func (c *Circuit) Connections() []*entities.Connection {
	out := make([]*entities.Connection, 0, len(c.connOrder))
	for _, id := range c.connOrder {
		out = append(out, c.connections[id])
	}
	return out
}

// Component retrieves a component by ID
func (c *Circuit) Component(id valueobjects.ComponentID) (*entities.Component, error) {
	component, exists := c.components[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("component " + id.String())
	}
	return component, nil
}

// HasComponent checks if a component exists without error
func (c *Circuit) HasComponent(id valueobjects.ComponentID) bool {
	_, exists := c.components[id]
	return exists
}

// Connection retrieves a wire by ID
func (c *Circuit) Connection(id valueobjects.ConnectionID) (*entities.Connection, error) {
	connection, exists := c.connections[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("connection " + id.String())
	}
	return connection, nil
}

// ComponentCount returns the number of placed components
func (c *Circuit) ComponentCount() int {
	return len(c.components)
}

// ConnectionCount returns the number of wires
func (c *Circuit) ConnectionCount() int {
	return len(c.connections)
}

// AddComponent places a new component of the given type. The component
// gets a fresh unique ID, zero rotation and catalog default properties.
// Existing components are never touched.
func (c *Circuit) AddComponent(componentType catalog.ComponentType, position valueobjects.Position) (*entities.Component, error) {
	if componentType == "" {
		return nil, pkgerrors.NewValidationError("component type cannot be empty")
	}
	if len(c.components) >= maxComponents {
		return nil, pkgerrors.NewValidationError("maximum number of components reached")
	}

	component := entities.NewComponent(componentType, position, len(c.components)+1)
	c.components[component.ID()] = component
	c.order = append(c.order, component.ID())
	c.touch()

	c.addEvent(events.NewComponentAdded(c.id.String(), component.ID(), string(componentType), c.updatedAt))
	return component, nil
}

// UpdateComponent merges the patch into the identified component.
// Fails with NotFound if the component is absent; id and type are not
// part of the patch because they are immutable.
func (c *Circuit) UpdateComponent(id valueobjects.ComponentID, patch ComponentPatch) error {
	component, exists := c.components[id]
	if !exists {
		return pkgerrors.NewNotFoundError("component " + id.String())
	}

	if patch.Name != nil {
		component.Rename(*patch.Name)
	}
	if patch.Position != nil {
		component.MoveTo(*patch.Position)
	}
	if patch.Rotation != nil {
		component.Rotate(*patch.Rotation)
	}
	if patch.Properties != nil {
		component.SetProperties(patch.Properties)
	}

	c.touch()
	return nil
}

// DeleteComponent removes a component and cascades: every wire touching
// it is removed too, so no connection can ever dangle. Deleting an absent
// component is a no-op. Returns whether anything was removed.
func (c *Circuit) DeleteComponent(id valueobjects.ComponentID) bool {
	if _, exists := c.components[id]; !exists {
		return false
	}

	removed := 0
	for connID, conn := range c.connections {
		if conn.References(id) {
			delete(c.connections, connID)
			c.connOrder = removeConnectionID(c.connOrder, connID)
			removed++
		}
	}

	delete(c.components, id)
	c.order = removeComponentID(c.order, id)
	c.touch()

	c.addEvent(events.NewComponentRemoved(c.id.String(), id, removed, c.updatedAt))
	return true
}

// Connect adds a wire between two component pins. Both endpoints must
// exist in this circuit; a self-loop is rejected. Pin compatibility is
// not checked here. Parallel wires between the same pin pair are allowed,
// each is an independently routed connection.
func (c *Circuit) Connect(fromComponent valueobjects.ComponentID, fromPin string, toComponent valueobjects.ComponentID, toPin string) (*entities.Connection, error) {
	if _, exists := c.components[fromComponent]; !exists {
		return nil, pkgerrors.NewInvalidReferenceError(fromComponent.String())
	}
	if _, exists := c.components[toComponent]; !exists {
		return nil, pkgerrors.NewInvalidReferenceError(toComponent.String())
	}
	if fromComponent == toComponent {
		return nil, pkgerrors.NewValidationError("cannot connect a component to itself")
	}

	connection := entities.NewConnection(fromComponent, fromPin, toComponent, toPin)
	c.connections[connection.ID] = connection
	c.connOrder = append(c.connOrder, connection.ID)
	c.touch()

	c.addEvent(events.NewComponentsConnected(c.id.String(), connection.ID, fromComponent, toComponent, c.updatedAt))
	return connection, nil
}

// RemoveConnection removes a wire. Removing an absent wire is a no-op.
// Returns whether anything was removed.
func (c *Circuit) RemoveConnection(id valueobjects.ConnectionID) bool {
	if _, exists := c.connections[id]; !exists {
		return false
	}

	delete(c.connections, id)
	c.connOrder = removeConnectionID(c.connOrder, id)
	c.touch()

	c.addEvent(events.NewConnectionRemoved(c.id.String(), id, c.updatedAt))
	return true
}

// UpdateConnection replaces the routing points of a wire
func (c *Circuit) UpdateConnection(id valueobjects.ConnectionID, wirePoints []valueobjects.Position) error {
	connection, exists := c.connections[id]
	if !exists {
		return pkgerrors.NewNotFoundError("connection " + id.String())
	}
	connection.SetWirePoints(wirePoints)
	c.touch()
	return nil
}

// ReplaceAll atomically swaps the entire circuit state for the given
// snapshot. Used after a load, and after a save when the service returns
// the canonical document (possibly with a newly assigned ID or normalized
// fields). The document is validated first; on error the circuit is left
// exactly as it was.
func (c *Circuit) ReplaceAll(doc CircuitDocument) error {
	replacement, err := ReconstructCircuit(doc)
	if err != nil {
		return err
	}

	c.id = replacement.id
	c.name = replacement.name
	c.description = replacement.description
	c.isPublic = replacement.isPublic
	c.components = replacement.components
	c.order = replacement.order
	c.connections = replacement.connections
	c.connOrder = replacement.connOrder
	c.metadata = replacement.metadata
	c.createdAt = replacement.createdAt
	c.updatedAt = replacement.updatedAt
	return nil
}

// Validate checks the structural invariants: every wire endpoint names a
// component present in the circuit, and the ordered views agree with the
// keyed collections.
func (c *Circuit) Validate() error {
	for _, conn := range c.connections {
		if _, exists := c.components[conn.FromComponent]; !exists {
			return pkgerrors.NewInvalidReferenceError(conn.FromComponent.String())
		}
		if _, exists := c.components[conn.ToComponent]; !exists {
			return pkgerrors.NewInvalidReferenceError(conn.ToComponent.String())
		}
	}

	if len(c.order) != len(c.components) {
		return pkgerrors.NewInternalError("component order out of sync")
	}
	if len(c.connOrder) != len(c.connections) {
		return pkgerrors.NewInternalError("connection order out of sync")
	}

	return nil
}

// GetUncommittedEvents returns all uncommitted domain events
func (c *Circuit) GetUncommittedEvents() []events.DomainEvent {
	out := make([]events.DomainEvent, len(c.events))
	copy(out, c.events)
	return out
}

// MarkEventsAsCommitted clears all uncommitted events
func (c *Circuit) MarkEventsAsCommitted() {
	c.events = []events.DomainEvent{}
}

func (c *Circuit) addEvent(event events.DomainEvent) {
	c.events = append(c.events, event)
}

func (c *Circuit) touch() {
	c.updatedAt = time.Now()
}

func removeComponentID(ids []valueobjects.ComponentID, id valueobjects.ComponentID) []valueobjects.ComponentID {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func removeConnectionID(ids []valueobjects.ConnectionID, id valueobjects.ConnectionID) []valueobjects.ConnectionID {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
