// Package simulation defines the data contract for requesting an
// electrical analysis and consuming its result. Results are advisory
// overlay data: they annotate a circuit for display and never mutate it.
package simulation

import (
	"time"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/aggregates"
)

// Request carries a deep, point-in-time snapshot of a circuit's
// components and connections plus the analysis window.
type Request struct {
	CircuitID      string                          `json:"circuit_id,omitempty"`
	Components     []aggregates.ComponentDocument  `json:"components" validate:"required,min=1"`
	Connections    []aggregates.ConnectionDocument `json:"connections"`
	SimulationTime float64                         `json:"simulation_time" validate:"gt=0,lte=60"`
	TimeStep       float64                         `json:"time_step" validate:"gt=0,lte=0.1"`
}

// Data holds the computed quantities keyed by component or connection ID.
// Keys that no longer match a live element (the circuit was edited while
// the run was in flight) are simply ignored by consumers.
type Data struct {
	Voltages        map[string]float64 `json:"voltages"`
	Currents        map[string]float64 `json:"currents"`
	Power           map[string]float64 `json:"power"`
	ComponentStates map[string]string  `json:"component_states"`
	Errors          map[string]string  `json:"errors,omitempty"`
	TimePoints      []float64          `json:"time_points"`
}

// Result is the simulation service's answer to a run request. The
// SimulationID identifies the server-side job and can be presented to
// the status endpoint.
type Result struct {
	SimulationID  string    `json:"simulation_id"`
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	Data          *Data     `json:"data,omitempty"`
	ExecutionTime float64   `json:"execution_time"`
	Timestamp     time.Time `json:"timestamp"`
}

// Reading is the per-element view of a result
type Reading struct {
	Voltage *float64
	Current *float64
	Power   *float64
	State   string
	Err     string
}

// Reading collects every computed quantity the result holds for one
// element ID. The second return is false when the result says nothing
// about that element.
func (r *Result) Reading(id string) (Reading, bool) {
	if r == nil || r.Data == nil {
		return Reading{}, false
	}

	var reading Reading
	found := false

	if v, ok := r.Data.Voltages[id]; ok {
		value := v
		reading.Voltage = &value
		found = true
	}
	if v, ok := r.Data.Currents[id]; ok {
		value := v
		reading.Current = &value
		found = true
	}
	if v, ok := r.Data.Power[id]; ok {
		value := v
		reading.Power = &value
		found = true
	}
	if s, ok := r.Data.ComponentStates[id]; ok {
		reading.State = s
		found = true
	}
	if e, ok := r.Data.Errors[id]; ok {
		reading.Err = e
		found = true
	}

	return reading, found
}

// ValidationReport is the simulation service's pre-flight check answer
type ValidationReport struct {
	Valid           bool     `json:"valid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	ComponentCount  int      `json:"component_count"`
	ConnectionCount int      `json:"connection_count"`
}

// JobStatus reports on a server-side simulation job
type JobStatus struct {
	SimulationID string `json:"simulation_id"`
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
	Message      string `json:"message"`
}
