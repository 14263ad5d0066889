// Package session implements the interactive editing layer around one
// circuit. The session is the sole writer of the circuit it owns: the
// rendering and properties surfaces only ever read snapshots from it.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/ports"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/catalog"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/aggregates"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/valueobjects"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/simulation"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

// Session wraps one circuit with transient editing state: the current
// selection and the latest simulation overlay. Graph mutations are
// synchronous and atomic; gateway calls work on deep snapshots taken at
// issue time and reconcile through per-channel sequence numbers so that
// only the most recently issued call can change session state
// (last-writer-wins by issue order, not arrival order).
type Session struct {
	persistence ports.PersistenceGateway
	simulator   ports.SimulationGateway
	logger      *zap.Logger

	mu       sync.Mutex
	circuit  *aggregates.Circuit
	selected valueobjects.ComponentID
	result   *simulation.Result

	// generation counts circuit replacements (NewCircuit, Load). A save
	// response issued against an earlier generation is discarded as
	// stale: per-channel ordering alone would let it overwrite a
	// circuit the user loaded while the save was in flight.
	generation uint64

	loadChannel requestChannel
	saveChannel requestChannel
	simChannel  requestChannel
}

// requestChannel tracks issue-order sequencing for one gateway channel
type requestChannel struct {
	issued  uint64
	applied uint64
}

// issue hands out the next sequence number
func (c *requestChannel) issue() uint64 {
	c.issued++
	return c.issued
}

// apply marks seq as applied if it is newer than everything applied so
// far; false means the response is stale and must be discarded.
func (c *requestChannel) apply(seq uint64) bool {
	if seq <= c.applied {
		return false
	}
	c.applied = seq
	return true
}

// NewSession creates a session with no circuit loaded
func NewSession(persistence ports.PersistenceGateway, simulator ports.SimulationGateway, logger *zap.Logger) *Session {
	return &Session{
		persistence: persistence,
		simulator:   simulator,
		logger:      logger,
	}
}

func (s *Session) lock()   { s.mu.Lock() }
func (s *Session) unlock() { s.mu.Unlock() }

// NewCircuit starts an empty, unsaved circuit, discarding whatever the
// session held before
func (s *Session) NewCircuit(name string) {
	s.lock()
	defer s.unlock()

	s.circuit = aggregates.NewCircuit(name)
	s.selected = ""
	s.result = nil
	s.generation++
}

// HasCircuit reports whether a circuit is loaded
func (s *Session) HasCircuit() bool {
	s.lock()
	defer s.unlock()
	return s.circuit != nil
}

// Snapshot returns a deep copy of the current circuit for rendering.
// The second return is false when no circuit is loaded.
func (s *Session) Snapshot() (aggregates.CircuitDocument, bool) {
	s.lock()
	defer s.unlock()

	if s.circuit == nil {
		return aggregates.CircuitDocument{}, false
	}
	return s.circuit.Snapshot(), true
}

// SelectedComponent returns the current selection, if any
func (s *Session) SelectedComponent() (valueobjects.ComponentID, bool) {
	s.lock()
	defer s.unlock()
	return s.selected, !s.selected.IsZero()
}

// Result returns the latest simulation overlay, or nil
func (s *Session) Result() *simulation.Result {
	s.lock()
	defer s.unlock()
	return s.result
}

// Select marks a component as selected. Selecting an absent component
// clears the selection instead of erroring.
func (s *Session) Select(id valueobjects.ComponentID) {
	s.lock()
	defer s.unlock()

	if s.circuit == nil || !s.circuit.HasComponent(id) {
		s.selected = ""
		return
	}
	s.selected = id
}

// ClearSelection drops the current selection
func (s *Session) ClearSelection() {
	s.lock()
	defer s.unlock()
	s.selected = ""
}

// AddComponent places a component and returns its snapshot
func (s *Session) AddComponent(componentType catalog.ComponentType, position valueobjects.Position) (aggregates.ComponentDocument, error) {
	s.lock()
	defer s.unlock()

	if s.circuit == nil {
		return aggregates.ComponentDocument{}, pkgerrors.NewNotFoundError("circuit")
	}

	component, err := s.circuit.AddComponent(componentType, position)
	if err != nil {
		return aggregates.ComponentDocument{}, err
	}

	return aggregates.ComponentDocument{
		ID:         component.ID().String(),
		Type:       string(component.Type()),
		Name:       component.Name(),
		Position:   component.Position(),
		Rotation:   component.Rotation(),
		Properties: component.Properties(),
	}, nil
}

// UpdateComponent merges a patch into a component
func (s *Session) UpdateComponent(id valueobjects.ComponentID, patch aggregates.ComponentPatch) error {
	s.lock()
	defer s.unlock()

	if s.circuit == nil {
		return pkgerrors.NewNotFoundError("circuit")
	}
	return s.circuit.UpdateComponent(id, patch)
}

// DeleteComponent removes a component, cascading its wires. If the
// deleted component was selected, the selection is cleared in the same
// atomic step: no reader can ever observe a selection pointing at a
// deleted component.
func (s *Session) DeleteComponent(id valueobjects.ComponentID) {
	s.lock()
	defer s.unlock()

	if s.circuit == nil {
		return
	}

	s.circuit.DeleteComponent(id)
	if s.selected == id {
		s.selected = ""
	}
}

// AddConnection wires two component pins together
func (s *Session) AddConnection(fromComponent valueobjects.ComponentID, fromPin string, toComponent valueobjects.ComponentID, toPin string) (aggregates.ConnectionDocument, error) {
	s.lock()
	defer s.unlock()

	if s.circuit == nil {
		return aggregates.ConnectionDocument{}, pkgerrors.NewNotFoundError("circuit")
	}

	connection, err := s.circuit.Connect(fromComponent, fromPin, toComponent, toPin)
	if err != nil {
		return aggregates.ConnectionDocument{}, err
	}

	return aggregates.ConnectionDocument{
		ID:            connection.ID.String(),
		FromComponent: connection.FromComponent.String(),
		FromPin:       connection.FromPin,
		ToComponent:   connection.ToComponent.String(),
		ToPin:         connection.ToPin,
		WirePoints:    append([]valueobjects.Position(nil), connection.WirePoints...),
	}, nil
}

// UpdateConnection replaces a wire's routing points
func (s *Session) UpdateConnection(id valueobjects.ConnectionID, wirePoints []valueobjects.Position) error {
	s.lock()
	defer s.unlock()

	if s.circuit == nil {
		return pkgerrors.NewNotFoundError("circuit")
	}
	return s.circuit.UpdateConnection(id, wirePoints)
}

// RemoveConnection removes a wire; removing an absent wire is a no-op
func (s *Session) RemoveConnection(id valueobjects.ConnectionID) {
	s.lock()
	defer s.unlock()

	if s.circuit == nil {
		return
	}
	s.circuit.RemoveConnection(id)
}

// SetName renames the circuit
func (s *Session) SetName(name string) error {
	s.lock()
	defer s.unlock()

	if s.circuit == nil {
		return pkgerrors.NewNotFoundError("circuit")
	}
	s.circuit.SetName(name)
	return nil
}

// SetDescription updates the circuit's description
func (s *Session) SetDescription(description string) error {
	s.lock()
	defer s.unlock()

	if s.circuit == nil {
		return pkgerrors.NewNotFoundError("circuit")
	}
	s.circuit.SetDescription(description)
	return nil
}

// Load fetches a circuit from the persistence service and replaces the
// session's circuit with it. On failure the session is left in an
// explicit "no circuit loaded" state, never a silently empty circuit.
func (s *Session) Load(ctx context.Context, circuitID string) error {
	s.lock()
	seq := s.loadChannel.issue()
	s.unlock()

	doc, err := s.persistence.Load(ctx, circuitID)

	s.lock()
	defer s.unlock()

	if !s.loadChannel.apply(seq) {
		s.logger.Debug("discarding stale load response",
			zap.String("circuitID", circuitID),
			zap.Uint64("seq", seq),
		)
		return pkgerrors.NewStaleError("load", seq)
	}

	// Every path below replaces the circuit.
	s.generation++

	if err != nil {
		s.circuit = nil
		s.selected = ""
		s.result = nil
		return err
	}

	circuit, err := aggregates.ReconstructCircuit(doc)
	if err != nil {
		s.circuit = nil
		s.selected = ""
		s.result = nil
		return err
	}

	s.circuit = circuit
	s.selected = ""
	s.result = nil
	return nil
}

// Save sends a snapshot of the circuit to the persistence service and,
// on success, replaces the local circuit with the canonical document the
// service returned (which may carry a newly assigned ID or normalized
// fields). Local edits made while the call was in flight do not leak
// into the request, and a failed save leaves the circuit exactly as it
// was. The response is discarded if a newer save was applied while this
// one was in flight, or if the session's circuit was replaced (a new or
// loaded circuit) after the snapshot was taken.
func (s *Session) Save(ctx context.Context) error {
	s.lock()
	if s.circuit == nil {
		s.unlock()
		return pkgerrors.NewNotFoundError("circuit")
	}
	seq := s.saveChannel.issue()
	gen := s.generation
	snapshot := s.circuit.Snapshot()
	s.unlock()

	saved, err := s.persistence.Save(ctx, snapshot)
	if err != nil {
		// Local state untouched: the user can retry.
		return err
	}

	s.lock()
	defer s.unlock()

	if s.circuit == nil || s.generation != gen {
		return pkgerrors.NewStaleError("save", seq)
	}
	if !s.saveChannel.apply(seq) {
		s.logger.Debug("discarding stale save response", zap.Uint64("seq", seq))
		return pkgerrors.NewStaleError("save", seq)
	}

	if err := s.circuit.ReplaceAll(saved); err != nil {
		return err
	}
	if !s.selected.IsZero() && !s.circuit.HasComponent(s.selected) {
		s.selected = ""
	}
	return nil
}

// Simulate snapshots the circuit, submits it for analysis, and on
// success stores the result as the session's display overlay. The
// circuit itself is never mutated by a simulation, successful or not.
// A result arriving after a newer one has been applied is discarded.
func (s *Session) Simulate(ctx context.Context, simulationTime, timeStep float64) (*simulation.Result, error) {
	s.lock()
	if s.circuit == nil {
		s.unlock()
		return nil, pkgerrors.NewNotFoundError("circuit")
	}
	seq := s.simChannel.issue()
	snapshot := s.circuit.Snapshot()
	s.unlock()

	req := simulation.Request{
		CircuitID:      snapshot.ID,
		Components:     snapshot.Components,
		Connections:    snapshot.Connections,
		SimulationTime: simulationTime,
		TimeStep:       timeStep,
	}

	result, err := s.simulator.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	s.lock()
	defer s.unlock()

	if !s.simChannel.apply(seq) {
		s.logger.Debug("discarding stale simulation result", zap.Uint64("seq", seq))
		return nil, pkgerrors.NewStaleError("simulate", seq)
	}

	s.result = result
	return result, nil
}

// ValidateCircuit asks the simulation service to pre-flight the current
// circuit without running it
func (s *Session) ValidateCircuit(ctx context.Context) (*simulation.ValidationReport, error) {
	s.lock()
	if s.circuit == nil {
		s.unlock()
		return nil, pkgerrors.NewNotFoundError("circuit")
	}
	snapshot := s.circuit.Snapshot()
	s.unlock()

	req := simulation.Request{
		CircuitID:   snapshot.ID,
		Components:  snapshot.Components,
		Connections: snapshot.Connections,
	}
	return s.simulator.Validate(ctx, req)
}
