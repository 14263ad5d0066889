package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/catalog"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/simulation"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

// SimulationService answers run/validate/status requests. The analysis
// itself is a first-order reference model: per-component quantities
// derived from the component's own properties, not a full nodal solve.
// It keys every quantity by component ID so the client can overlay the
// numbers onto its circuit.
// maxRetainedJobs bounds the job registry; the oldest entries are
// evicted first
const maxRetainedJobs = 100

type SimulationService struct {
	logger *zap.Logger

	mu       sync.RWMutex
	jobs     map[string]simulation.JobStatus
	jobOrder []string
}

// NewSimulationService creates a new simulation service
func NewSimulationService(logger *zap.Logger) *SimulationService {
	return &SimulationService{
		logger: logger,
		jobs:   make(map[string]simulation.JobStatus),
	}
}

// Run analyzes a circuit snapshot and returns quantities keyed by
// component ID. The request snapshot is never echoed back or retained.
func (s *SimulationService) Run(ctx context.Context, req simulation.Request) (*simulation.Result, error) {
	start := time.Now()

	if len(req.Components) == 0 {
		return nil, pkgerrors.NewValidationError("no components provided for simulation")
	}
	if req.SimulationTime <= 0 || req.SimulationTime > 60 {
		return nil, pkgerrors.NewValidationError("simulation_time must be in (0, 60]")
	}
	if req.TimeStep <= 0 || req.TimeStep > 0.1 {
		return nil, pkgerrors.NewValidationError("time_step must be in (0, 0.1]")
	}

	data := &simulation.Data{
		Voltages:        make(map[string]float64),
		Currents:        make(map[string]float64),
		Power:           make(map[string]float64),
		ComponentStates: make(map[string]string),
		Errors:          make(map[string]string),
	}

	for _, component := range req.Components {
		switch catalog.ComponentType(component.Type) {
		case catalog.TypeBattery:
			props, ok := component.Properties.(catalog.BatteryProperties)
			if !ok {
				data.Errors[component.ID] = "battery properties malformed"
				continue
			}
			data.Voltages[component.ID] = props.Voltage
			data.Currents[component.ID] = 0.0

		case catalog.TypeResistor:
			props, ok := component.Properties.(catalog.ResistorProperties)
			if !ok {
				data.Errors[component.ID] = "resistor properties malformed"
				continue
			}
			if props.Resistance <= 0 {
				data.Errors[component.ID] = "resistance must be positive"
				continue
			}
			// First-order estimate: 5 V assumed across the resistor.
			voltage := 5.0
			current := voltage / props.Resistance
			data.Voltages[component.ID] = voltage
			data.Currents[component.ID] = current
			data.Power[component.ID] = voltage * current

		case catalog.TypeLED:
			props, ok := component.Properties.(catalog.LEDProperties)
			if !ok {
				data.Errors[component.ID] = "led properties malformed"
				continue
			}
			data.Voltages[component.ID] = props.ForwardVoltage
			data.Currents[component.ID] = props.ForwardCurrent
			data.ComponentStates[component.ID] = "on"
		}
	}

	steps := int(req.SimulationTime / req.TimeStep)
	data.TimePoints = make([]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		data.TimePoints = append(data.TimePoints, float64(i)*req.TimeStep)
	}

	jobID := uuid.New().String()
	result := &simulation.Result{
		SimulationID:  jobID,
		Success:       true,
		Message:       "Simulation completed successfully",
		Data:          data,
		ExecutionTime: time.Since(start).Seconds(),
		Timestamp:     time.Now().UTC(),
	}

	s.registerJob(simulation.JobStatus{
		SimulationID: jobID,
		Status:       "completed",
		Progress:     100,
		Message:      "Simulation completed",
	})

	s.logger.Info("simulation run completed",
		zap.String("simulationID", jobID),
		zap.Int("components", len(req.Components)),
		zap.Int("connections", len(req.Connections)),
		zap.Float64("executionTime", result.ExecutionTime),
	)

	return result, nil
}

// Validate pre-flights a circuit snapshot without running it. Structural
// problems come back as errors; electrical smells (no power source, no
// ground, floating components) come back as warnings.
func (s *SimulationService) Validate(ctx context.Context, req simulation.Request) (*simulation.ValidationReport, error) {
	report := &simulation.ValidationReport{
		Errors:          []string{},
		Warnings:        []string{},
		ComponentCount:  len(req.Components),
		ConnectionCount: len(req.Connections),
	}

	componentIDs := make(map[string]bool, len(req.Components))
	hasPower := false
	hasGround := false
	for _, component := range req.Components {
		if componentIDs[component.ID] {
			report.Errors = append(report.Errors, fmt.Sprintf("duplicate component id: %s", component.ID))
		}
		componentIDs[component.ID] = true

		switch catalog.ComponentType(component.Type) {
		case catalog.TypeBattery:
			hasPower = true
		case catalog.TypeGround:
			hasGround = true
		}
	}

	connected := make(map[string]bool, len(req.Components))
	for _, conn := range req.Connections {
		if !componentIDs[conn.FromComponent] {
			report.Errors = append(report.Errors, fmt.Sprintf("connection references non-existent component: %s", conn.FromComponent))
		}
		if !componentIDs[conn.ToComponent] {
			report.Errors = append(report.Errors, fmt.Sprintf("connection references non-existent component: %s", conn.ToComponent))
		}
		connected[conn.FromComponent] = true
		connected[conn.ToComponent] = true
	}

	if len(req.Components) > 0 {
		if !hasPower {
			report.Warnings = append(report.Warnings, "No power source detected in circuit")
		}
		if !hasGround {
			report.Warnings = append(report.Warnings, "No ground connection found")
		}

		var floating []string
		for _, component := range req.Components {
			if !connected[component.ID] {
				floating = append(floating, component.Name)
			}
		}
		if len(floating) > 0 {
			report.Warnings = append(report.Warnings, "Disconnected components: "+strings.Join(floating, ", "))
		}
	}

	report.Valid = len(report.Errors) == 0
	return report, nil
}

// registerJob records a job's status, evicting the oldest entry once
// the registry is full
func (s *SimulationService) registerJob(status simulation.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.jobOrder) >= maxRetainedJobs {
		oldest := s.jobOrder[0]
		s.jobOrder = s.jobOrder[1:]
		delete(s.jobs, oldest)
	}
	s.jobs[status.SimulationID] = status
	s.jobOrder = append(s.jobOrder, status.SimulationID)
}

// Status reports on a previously started simulation job; NotFound for
// jobs this service has never seen or has already evicted
func (s *SimulationService) Status(ctx context.Context, simulationID string) (*simulation.JobStatus, error) {
	s.mu.RLock()
	status, exists := s.jobs[simulationID]
	s.mu.RUnlock()

	if !exists {
		return nil, pkgerrors.NewNotFoundError("simulation " + simulationID)
	}
	return &status, nil
}
