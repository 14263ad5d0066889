package events

import (
	"time"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// CircuitCreated is raised when a new circuit document is created
type CircuitCreated struct {
	BaseEvent
	Name string `json:"name"`
}

// NewCircuitCreated creates a CircuitCreated event
func NewCircuitCreated(aggregateID, name string, timestamp time.Time) CircuitCreated {
	return CircuitCreated{
		BaseEvent: BaseEvent{
			AggregateID: aggregateID,
			EventType:   "circuit.created",
			Timestamp:   timestamp,
		},
		Name: name,
	}
}

// ComponentAdded is raised when a component is placed on a circuit
type ComponentAdded struct {
	BaseEvent
	ComponentID   string `json:"component_id"`
	ComponentType string `json:"component_type"`
}

// NewComponentAdded creates a ComponentAdded event
func NewComponentAdded(aggregateID string, componentID valueobjects.ComponentID, componentType string, timestamp time.Time) ComponentAdded {
	return ComponentAdded{
		BaseEvent: BaseEvent{
			AggregateID: aggregateID,
			EventType:   "circuit.component_added",
			Timestamp:   timestamp,
		},
		ComponentID:   componentID.String(),
		ComponentType: componentType,
	}
}

// ComponentRemoved is raised when a component is deleted, after its
// connections have been cascaded away
type ComponentRemoved struct {
	BaseEvent
	ComponentID        string `json:"component_id"`
	ConnectionsRemoved int    `json:"connections_removed"`
}

// NewComponentRemoved creates a ComponentRemoved event
func NewComponentRemoved(aggregateID string, componentID valueobjects.ComponentID, connectionsRemoved int, timestamp time.Time) ComponentRemoved {
	return ComponentRemoved{
		BaseEvent: BaseEvent{
			AggregateID: aggregateID,
			EventType:   "circuit.component_removed",
			Timestamp:   timestamp,
		},
		ComponentID:        componentID.String(),
		ConnectionsRemoved: connectionsRemoved,
	}
}

// ComponentsConnected is raised when a wire is added between two pins
type ComponentsConnected struct {
	BaseEvent
	ConnectionID  string `json:"connection_id"`
	FromComponent string `json:"from_component"`
	ToComponent   string `json:"to_component"`
}

// NewComponentsConnected creates a ComponentsConnected event
func NewComponentsConnected(aggregateID string, connectionID valueobjects.ConnectionID, from, to valueobjects.ComponentID, timestamp time.Time) ComponentsConnected {
	return ComponentsConnected{
		BaseEvent: BaseEvent{
			AggregateID: aggregateID,
			EventType:   "circuit.components_connected",
			Timestamp:   timestamp,
		},
		ConnectionID:  connectionID.String(),
		FromComponent: from.String(),
		ToComponent:   to.String(),
	}
}

// ConnectionRemoved is raised when a wire is removed
type ConnectionRemoved struct {
	BaseEvent
	ConnectionID string `json:"connection_id"`
}

// NewConnectionRemoved creates a ConnectionRemoved event
func NewConnectionRemoved(aggregateID string, connectionID valueobjects.ConnectionID, timestamp time.Time) ConnectionRemoved {
	return ConnectionRemoved{
		BaseEvent: BaseEvent{
			AggregateID: aggregateID,
			EventType:   "circuit.connection_removed",
			Timestamp:   timestamp,
		},
		ConnectionID: connectionID.String(),
	}
}
