package aggregates

import (
	"encoding/json"
	"time"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/catalog"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/entities"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/valueobjects"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

// CircuitDocument is the wire and storage representation of a circuit:
// a deep, point-in-time copy with no live references into the aggregate.
// Gateways exchange documents, never aggregates.
type CircuitDocument struct {
	ID          string                 `json:"id,omitempty"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Components  []ComponentDocument    `json:"components"`
	Connections []ConnectionDocument   `json:"connections"`
	Metadata    map[string]interface{} `json:"metadata"`
	IsPublic    bool                   `json:"is_public"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ComponentDocument is the wire representation of one placed component
type ComponentDocument struct {
	ID         string                `json:"id"`
	Type       string                `json:"type"`
	Name       string                `json:"name"`
	Position   valueobjects.Position `json:"position"`
	Rotation   float64               `json:"rotation"`
	Properties catalog.PropertySet   `json:"properties"`
}

// UnmarshalJSON decodes the properties object into the typed variant for
// the component's type
func (d *ComponentDocument) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID         string                `json:"id"`
		Type       string                `json:"type"`
		Name       string                `json:"name"`
		Position   valueobjects.Position `json:"position"`
		Rotation   float64               `json:"rotation"`
		Properties json.RawMessage       `json:"properties"`
	}

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	properties, err := catalog.UnmarshalProperties(catalog.ComponentType(a.Type), a.Properties)
	if err != nil {
		return err
	}

	d.ID = a.ID
	d.Type = a.Type
	d.Name = a.Name
	d.Position = a.Position
	d.Rotation = a.Rotation
	d.Properties = properties
	return nil
}

// ConnectionDocument is the wire representation of one wire
type ConnectionDocument struct {
	ID            string                  `json:"id"`
	FromComponent string                  `json:"from_component"`
	FromPin       string                  `json:"from_pin"`
	ToComponent   string                  `json:"to_component"`
	ToPin         string                  `json:"to_pin"`
	WirePoints    []valueobjects.Position `json:"wire_points"`
}

// Snapshot produces a deep, point-in-time copy of the circuit. Later
// mutations of the aggregate cannot be observed through the returned
// document.
func (c *Circuit) Snapshot() CircuitDocument {
	doc := CircuitDocument{
		ID:          c.id.String(),
		Name:        c.name,
		Description: c.description,
		Components:  make([]ComponentDocument, 0, len(c.order)),
		Connections: make([]ConnectionDocument, 0, len(c.connOrder)),
		Metadata:    c.Metadata(),
		IsPublic:    c.isPublic,
		CreatedAt:   c.createdAt,
		UpdatedAt:   c.updatedAt,
	}

	for _, id := range c.order {
		component := c.components[id]
		doc.Components = append(doc.Components, ComponentDocument{
			ID:         component.ID().String(),
			Type:       string(component.Type()),
			Name:       component.Name(),
			Position:   component.Position(),
			Rotation:   component.Rotation(),
			Properties: component.Properties(),
		})
	}

	for _, id := range c.connOrder {
		connection := c.connections[id]
		points := make([]valueobjects.Position, len(connection.WirePoints))
		copy(points, connection.WirePoints)
		doc.Connections = append(doc.Connections, ConnectionDocument{
			ID:            connection.ID.String(),
			FromComponent: connection.FromComponent.String(),
			FromPin:       connection.FromPin,
			ToComponent:   connection.ToComponent.String(),
			ToPin:         connection.ToPin,
			WirePoints:    points,
		})
	}

	return doc
}

// Clone returns a deep copy of the document
func (d CircuitDocument) Clone() CircuitDocument {
	out := d
	out.Components = make([]ComponentDocument, len(d.Components))
	for i, comp := range d.Components {
		out.Components[i] = comp
		if comp.Properties != nil {
			out.Components[i].Properties = comp.Properties.Clone()
		}
	}
	out.Connections = make([]ConnectionDocument, len(d.Connections))
	for i, conn := range d.Connections {
		out.Connections[i] = conn
		out.Connections[i].WirePoints = append([]valueobjects.Position(nil), conn.WirePoints...)
	}
	out.Metadata = cloneMetadata(d.Metadata)
	return out
}

// cloneMetadata deep-copies the open extension mapping. Metadata values
// arrive from JSON, so nested containers are maps and slices of
// interface{}; anything else is an immutable scalar.
func cloneMetadata(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = cloneMetadataValue(v)
	}
	return out
}

func cloneMetadataValue(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		return cloneMetadata(value)
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = cloneMetadataValue(item)
		}
		return out
	default:
		return value
	}
}

// ReconstructCircuit builds an aggregate from a stored or received
// document, enforcing the structural invariants: no duplicate component
// or connection IDs, and every wire endpoint present. The reconstructed
// circuit carries no uncommitted events.
func ReconstructCircuit(doc CircuitDocument) (*Circuit, error) {
	circuit := &Circuit{
		id:          valueobjects.CircuitID(doc.ID),
		name:        doc.Name,
		description: doc.Description,
		isPublic:    doc.IsPublic,
		components:  make(map[valueobjects.ComponentID]*entities.Component, len(doc.Components)),
		connections: make(map[valueobjects.ConnectionID]*entities.Connection, len(doc.Connections)),
		metadata:    cloneMetadata(doc.Metadata),
		createdAt:   doc.CreatedAt,
		updatedAt:   doc.UpdatedAt,
	}

	for _, compDoc := range doc.Components {
		id := valueobjects.ComponentID(compDoc.ID)
		if _, exists := circuit.components[id]; exists {
			return nil, pkgerrors.NewValidationError("duplicate component id: " + compDoc.ID)
		}
		component, err := entities.ReconstructComponent(
			id,
			catalog.ComponentType(compDoc.Type),
			compDoc.Name,
			compDoc.Position,
			compDoc.Rotation,
			compDoc.Properties,
		)
		if err != nil {
			return nil, err
		}
		circuit.components[id] = component
		circuit.order = append(circuit.order, id)
	}

	for _, connDoc := range doc.Connections {
		id := valueobjects.ConnectionID(connDoc.ID)
		if id.IsZero() {
			return nil, pkgerrors.NewValidationError("connection id cannot be empty")
		}
		if _, exists := circuit.connections[id]; exists {
			return nil, pkgerrors.NewValidationError("duplicate connection id: " + connDoc.ID)
		}
		from := valueobjects.ComponentID(connDoc.FromComponent)
		to := valueobjects.ComponentID(connDoc.ToComponent)
		if _, exists := circuit.components[from]; !exists {
			return nil, pkgerrors.NewInvalidReferenceError(connDoc.FromComponent)
		}
		if _, exists := circuit.components[to]; !exists {
			return nil, pkgerrors.NewInvalidReferenceError(connDoc.ToComponent)
		}

		points := make([]valueobjects.Position, len(connDoc.WirePoints))
		copy(points, connDoc.WirePoints)
		circuit.connections[id] = &entities.Connection{
			ID:            id,
			FromComponent: from,
			FromPin:       connDoc.FromPin,
			ToComponent:   to,
			ToPin:         connDoc.ToPin,
			WirePoints:    points,
		}
		circuit.connOrder = append(circuit.connOrder, id)
	}

	return circuit, nil
}
