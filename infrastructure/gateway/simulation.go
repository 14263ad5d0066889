package gateway

import (
	"context"
	"net/http"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/simulation"
)

// SimulationClient implements ports.SimulationGateway against the
// simulation service's REST API
type SimulationClient struct {
	client *Client
}

// NewSimulationClient creates a simulation gateway over the shared client
func NewSimulationClient(client *Client) *SimulationClient {
	return &SimulationClient{client: client}
}

// Run submits a circuit snapshot for analysis
func (g *SimulationClient) Run(ctx context.Context, simReq simulation.Request) (*simulation.Result, error) {
	var result simulation.Result
	req := g.client.http.R().SetContext(ctx).SetBody(simReq)
	if err := g.client.call(req, http.MethodPost, "/simulate/run", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Validate checks a snapshot without running it
func (g *SimulationClient) Validate(ctx context.Context, simReq simulation.Request) (*simulation.ValidationReport, error) {
	var report simulation.ValidationReport
	req := g.client.http.R().SetContext(ctx).SetBody(simReq)
	if err := g.client.call(req, http.MethodPost, "/simulate/validate", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Status reports on a server-side simulation job
func (g *SimulationClient) Status(ctx context.Context, simulationID string) (*simulation.JobStatus, error) {
	var status simulation.JobStatus
	req := g.client.http.R().SetContext(ctx)
	if err := g.client.call(req, http.MethodGet, "/simulate/status/"+simulationID, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
