// Package ports defines the boundaries the application core depends on.
// These are ports in hexagonal architecture: the domain does not know
// about the implementations behind them.
package ports

import (
	"context"
	"time"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/aggregates"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/events"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/simulation"
)

// ListFilter narrows a circuit listing
type ListFilter struct {
	Skip       int
	Limit      int
	PublicOnly bool
}

// CircuitSummary is the listing view of a stored circuit
type CircuitSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ComponentCount int       `json:"component_count"`
	IsPublic       bool      `json:"is_public"`
	CreatedAt      time.Time `json:"created_at"`
}

// CircuitExport is the portable export of a circuit document
type CircuitExport struct {
	Name        string                          `json:"name"`
	Description string                          `json:"description"`
	Components  []aggregates.ComponentDocument  `json:"components"`
	Connections []aggregates.ConnectionDocument `json:"connections"`
	Metadata    map[string]interface{}          `json:"metadata"`
	ExportedAt  time.Time                       `json:"exported_at"`
}

// CircuitStore persists circuit documents on the service side
type CircuitStore interface {
	// Save upserts a document. The caller has already assigned the ID.
	Save(ctx context.Context, doc aggregates.CircuitDocument) error

	// GetByID retrieves a document; NotFound when absent.
	GetByID(ctx context.Context, id string) (aggregates.CircuitDocument, error)

	// List returns documents matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]aggregates.CircuitDocument, error)

	// Delete removes a document; NotFound when absent.
	Delete(ctx context.Context, id string) error
}

// PersistenceGateway is the client-side boundary that loads and saves
// circuits against the remote service. Every call is fallible: transport
// failures and auth rejections surface as errors, never as mutations of
// local state.
type PersistenceGateway interface {
	// Load fetches a circuit by ID; NotFound or TransportError on failure.
	Load(ctx context.Context, circuitID string) (aggregates.CircuitDocument, error)

	// Save creates the circuit when doc.ID is empty, updates it otherwise,
	// and returns the canonical document as the service stored it.
	Save(ctx context.Context, doc aggregates.CircuitDocument) (aggregates.CircuitDocument, error)

	// List returns summaries of stored circuits.
	List(ctx context.Context, filter ListFilter) ([]CircuitSummary, error)

	// Delete removes a stored circuit; NotFound when absent.
	Delete(ctx context.Context, circuitID string) error

	// Duplicate copies a stored circuit, optionally renaming the copy.
	Duplicate(ctx context.Context, circuitID, name string) (aggregates.CircuitDocument, error)

	// Export fetches the portable representation of a stored circuit.
	Export(ctx context.Context, circuitID string) (CircuitExport, error)
}

// SimulationGateway is the client-side boundary that submits circuit
// snapshots for electrical analysis
type SimulationGateway interface {
	// Run submits a snapshot for analysis.
	Run(ctx context.Context, req simulation.Request) (*simulation.Result, error)

	// Validate checks a snapshot without running it.
	Validate(ctx context.Context, req simulation.Request) (*simulation.ValidationReport, error)

	// Status reports on a server-side simulation job.
	Status(ctx context.Context, simulationID string) (*simulation.JobStatus, error)
}

// EventPublisher pushes domain events to the message bus
type EventPublisher interface {
	Publish(ctx context.Context, evts []events.DomainEvent) error
}
