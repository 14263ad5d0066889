package entities

import (
	"fmt"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/catalog"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/valueobjects"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

// Component is one placed circuit element. Identity and type are fixed at
// creation; everything else is mutable through the methods below so the
// invariants stay inside the entity.
type Component struct {
	id            valueobjects.ComponentID
	componentType catalog.ComponentType
	name          string
	position      valueobjects.Position
	rotation      float64
	properties    catalog.PropertySet
}

// NewComponent creates a component of the given type at the given position.
// Rotation starts at 0 and properties are seeded from the catalog defaults.
func NewComponent(componentType catalog.ComponentType, position valueobjects.Position, ordinal int) *Component {
	return &Component{
		id:            valueobjects.NewComponentID(),
		componentType: componentType,
		name:          fmt.Sprintf("%s_%d", componentType, ordinal),
		position:      position,
		rotation:      0,
		properties:    catalog.DefaultsFor(componentType),
	}
}

// ReconstructComponent recreates a component from stored data
func ReconstructComponent(
	id valueobjects.ComponentID,
	componentType catalog.ComponentType,
	name string,
	position valueobjects.Position,
	rotation float64,
	properties catalog.PropertySet,
) (*Component, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("component id cannot be empty")
	}
	if componentType == "" {
		return nil, pkgerrors.NewValidationError("component type cannot be empty")
	}
	if properties == nil {
		properties = catalog.DefaultsFor(componentType)
	}
	return &Component{
		id:            id,
		componentType: componentType,
		name:          name,
		position:      position,
		rotation:      rotation,
		properties:    properties,
	}, nil
}

// ID returns the component's unique identifier
func (c *Component) ID() valueobjects.ComponentID {
	return c.id
}

// Type returns the component's kind. Immutable: changing behavior means
// deleting and re-adding the component.
func (c *Component) Type() catalog.ComponentType {
	return c.componentType
}

// Name returns the human-readable label
func (c *Component) Name() string {
	return c.name
}

// Position returns the canvas position
func (c *Component) Position() valueobjects.Position {
	return c.position
}

// Rotation returns the rotation in degrees
func (c *Component) Rotation() float64 {
	return c.rotation
}

// Properties returns a copy of the component's property set
func (c *Component) Properties() catalog.PropertySet {
	return c.properties.Clone()
}

// Rename updates the label
func (c *Component) Rename(name string) {
	c.name = name
}

// MoveTo updates the canvas position
func (c *Component) MoveTo(position valueobjects.Position) {
	c.position = position
}

// Rotate sets the rotation in degrees
func (c *Component) Rotate(degrees float64) {
	c.rotation = degrees
}

// SetProperties replaces the property record
func (c *Component) SetProperties(properties catalog.PropertySet) {
	if properties == nil {
		return
	}
	c.properties = properties.Clone()
}
