package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/ports"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/aggregates"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/valueobjects"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/events"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

// CircuitService owns the persistence side of circuit documents:
// validation, identity assignment, timestamps, and the CRUD surface the
// REST layer exposes.
type CircuitService struct {
	store     ports.CircuitStore
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewCircuitService creates a new circuit service
func NewCircuitService(store ports.CircuitStore, publisher ports.EventPublisher, logger *zap.Logger) *CircuitService {
	return &CircuitService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns summaries of stored circuits matching the filter
func (s *CircuitService) List(ctx context.Context, filter ports.ListFilter) ([]ports.CircuitSummary, error) {
	docs, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.CircuitSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, ports.CircuitSummary{
			ID:             doc.ID,
			Name:           doc.Name,
			Description:    doc.Description,
			ComponentCount: len(doc.Components),
			IsPublic:       doc.IsPublic,
			CreatedAt:      doc.CreatedAt,
		})
	}
	return summaries, nil
}

// Get retrieves one circuit document
func (s *CircuitService) Get(ctx context.Context, id string) (aggregates.CircuitDocument, error) {
	return s.store.GetByID(ctx, id)
}

// Create validates and stores a new circuit, assigning its identity and
// timestamps. The returned document is the canonical form the caller
// must adopt.
func (s *CircuitService) Create(ctx context.Context, doc aggregates.CircuitDocument) (aggregates.CircuitDocument, error) {
	if err := validateDocument(doc); err != nil {
		return aggregates.CircuitDocument{}, err
	}

	now := time.Now().UTC()
	doc.ID = valueobjects.NewCircuitID().String()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := s.store.Save(ctx, doc); err != nil {
		return aggregates.CircuitDocument{}, err
	}

	s.logger.Info("circuit created",
		zap.String("circuitID", doc.ID),
		zap.String("name", doc.Name),
		zap.Int("components", len(doc.Components)),
	)
	s.publish(ctx, events.NewCircuitCreated(doc.ID, doc.Name, now))

	return doc, nil
}

// Update validates and stores a new revision of an existing circuit.
// Identity and creation time are preserved from the stored document.
func (s *CircuitService) Update(ctx context.Context, id string, doc aggregates.CircuitDocument) (aggregates.CircuitDocument, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return aggregates.CircuitDocument{}, err
	}

	if err := validateDocument(doc); err != nil {
		return aggregates.CircuitDocument{}, err
	}

	doc.ID = existing.ID
	doc.CreatedAt = existing.CreatedAt
	doc.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, doc); err != nil {
		return aggregates.CircuitDocument{}, err
	}

	s.logger.Info("circuit updated", zap.String("circuitID", doc.ID))
	return doc, nil
}

// Delete removes a stored circuit; NotFound when absent
func (s *CircuitService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("circuit deleted", zap.String("circuitID", id))
	return nil
}

// Duplicate copies a stored circuit under a new identity. Copies are
// private regardless of the original's visibility.
func (s *CircuitService) Duplicate(ctx context.Context, id, name string) (aggregates.CircuitDocument, error) {
	original, err := s.store.GetByID(ctx, id)
	if err != nil {
		return aggregates.CircuitDocument{}, err
	}

	dup := original.Clone()
	if name != "" {
		dup.Name = name
	} else {
		dup.Name = original.Name + " (Copy)"
	}

	now := time.Now().UTC()
	dup.ID = valueobjects.NewCircuitID().String()
	dup.IsPublic = false
	dup.CreatedAt = now
	dup.UpdatedAt = now

	if err := s.store.Save(ctx, dup); err != nil {
		return aggregates.CircuitDocument{}, err
	}

	s.logger.Info("circuit duplicated",
		zap.String("sourceID", id),
		zap.String("circuitID", dup.ID),
	)
	return dup, nil
}

// Export returns the portable representation of a stored circuit
func (s *CircuitService) Export(ctx context.Context, id string) (ports.CircuitExport, error) {
	doc, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ports.CircuitExport{}, err
	}

	clone := doc.Clone()
	return ports.CircuitExport{
		Name:        clone.Name,
		Description: clone.Description,
		Components:  clone.Components,
		Connections: clone.Connections,
		Metadata:    clone.Metadata,
		ExportedAt:  time.Now().UTC(),
	}, nil
}

// validateDocument enforces the structural invariants on an incoming
// document by reconstructing the aggregate from it: duplicate IDs and
// dangling connection endpoints are rejected before anything is stored.
func validateDocument(doc aggregates.CircuitDocument) error {
	if doc.Name == "" {
		return pkgerrors.NewValidationError("circuit name is required")
	}
	if _, err := aggregates.ReconstructCircuit(doc); err != nil {
		return err
	}
	return nil
}

func (s *CircuitService) publish(ctx context.Context, evt events.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, []events.DomainEvent{evt}); err != nil {
		s.logger.Warn("failed to publish domain event",
			zap.String("eventType", evt.GetEventType()),
			zap.Error(err),
		)
	}
}
