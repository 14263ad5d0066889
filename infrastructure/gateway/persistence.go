package gateway

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/ports"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/aggregates"
)

// PersistenceClient implements ports.PersistenceGateway against the
// circuit service's REST API
type PersistenceClient struct {
	client *Client
}

// NewPersistenceClient creates a persistence gateway over the shared client
func NewPersistenceClient(client *Client) *PersistenceClient {
	return &PersistenceClient{client: client}
}

// Load fetches a circuit by ID
func (g *PersistenceClient) Load(ctx context.Context, circuitID string) (aggregates.CircuitDocument, error) {
	var doc aggregates.CircuitDocument
	req := g.client.http.R().SetContext(ctx)
	if err := g.client.call(req, http.MethodGet, "/circuits/"+circuitID, &doc); err != nil {
		return aggregates.CircuitDocument{}, err
	}
	return doc, nil
}

// Save creates the circuit when doc.ID is empty, updates it otherwise.
// The document the service stored comes back as the canonical form.
func (g *PersistenceClient) Save(ctx context.Context, doc aggregates.CircuitDocument) (aggregates.CircuitDocument, error) {
	var saved aggregates.CircuitDocument
	req := g.client.http.R().SetContext(ctx).SetBody(doc)

	var err error
	if doc.ID == "" {
		err = g.client.call(req, http.MethodPost, "/circuits", &saved)
	} else {
		err = g.client.call(req, http.MethodPut, "/circuits/"+doc.ID, &saved)
	}
	if err != nil {
		return aggregates.CircuitDocument{}, err
	}
	return saved, nil
}

// List returns summaries of stored circuits
func (g *PersistenceClient) List(ctx context.Context, filter ports.ListFilter) ([]ports.CircuitSummary, error) {
	req := g.client.http.R().SetContext(ctx)
	if filter.Skip > 0 {
		req.SetQueryParam("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(filter.Limit))
	}
	if filter.PublicOnly {
		req.SetQueryParam("public_only", "true")
	}

	var summaries []ports.CircuitSummary
	if err := g.client.call(req, http.MethodGet, "/circuits", &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Delete removes a stored circuit
func (g *PersistenceClient) Delete(ctx context.Context, circuitID string) error {
	req := g.client.http.R().SetContext(ctx)
	return g.client.call(req, http.MethodDelete, "/circuits/"+circuitID, nil)
}

// Duplicate copies a stored circuit, optionally renaming the copy
func (g *PersistenceClient) Duplicate(ctx context.Context, circuitID, name string) (aggregates.CircuitDocument, error) {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}

	var dup aggregates.CircuitDocument
	req := g.client.http.R().SetContext(ctx).SetBody(body)
	if err := g.client.call(req, http.MethodPost, "/circuits/"+circuitID+"/duplicate", &dup); err != nil {
		return aggregates.CircuitDocument{}, err
	}
	return dup, nil
}

// Export fetches the portable representation of a stored circuit
func (g *PersistenceClient) Export(ctx context.Context, circuitID string) (ports.CircuitExport, error) {
	var export ports.CircuitExport
	req := g.client.http.R().SetContext(ctx)
	if err := g.client.call(req, http.MethodGet, "/circuits/"+circuitID+"/export", &export); err != nil {
		return ports.CircuitExport{}, err
	}
	return export, nil
}
