// Package handlers contains the REST request handlers
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/ports"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/services"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/aggregates"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/common"
)

const maxBodyBytes = 4 << 20

// CircuitRequest is the payload for creating or updating a circuit
type CircuitRequest struct {
	Name        string                          `json:"name" validate:"required,min=1,max=255"`
	Description string                          `json:"description" validate:"max=1000"`
	Components  []aggregates.ComponentDocument  `json:"components" validate:"max=1000"`
	Connections []aggregates.ConnectionDocument `json:"connections"`
	Metadata    map[string]interface{}          `json:"metadata"`
	IsPublic    bool                            `json:"is_public"`
}

// DuplicateRequest optionally renames the copy
type DuplicateRequest struct {
	Name string `json:"name" validate:"max=255"`
}

// CircuitHandler serves the circuit CRUD endpoints
type CircuitHandler struct {
	service  *services.CircuitService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCircuitHandler creates a new circuit handler
func NewCircuitHandler(service *services.CircuitService, logger *zap.Logger) *CircuitHandler {
	return &CircuitHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// ListCircuits handles GET /circuits
func (h *CircuitHandler) ListCircuits(w http.ResponseWriter, r *http.Request) {
	filter := ports.ListFilter{
		Skip:       queryInt(r, "skip", 0),
		Limit:      queryInt(r, "limit", 100),
		PublicOnly: r.URL.Query().Get("public_only") == "true",
	}

	summaries, err := h.service.List(r.Context(), filter)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, summaries)
}

// GetCircuit handles GET /circuits/{circuitID}
func (h *CircuitHandler) GetCircuit(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Get(r.Context(), chi.URLParam(r, "circuitID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, doc)
}

// CreateCircuit handles POST /circuits
func (h *CircuitHandler) CreateCircuit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseCircuitRequest(w, r)
	if !ok {
		return
	}

	doc, err := h.service.Create(r.Context(), toDocument(req))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, doc)
}

// UpdateCircuit handles PUT /circuits/{circuitID}
func (h *CircuitHandler) UpdateCircuit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseCircuitRequest(w, r)
	if !ok {
		return
	}

	doc, err := h.service.Update(r.Context(), chi.URLParam(r, "circuitID"), toDocument(req))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, doc)
}

// DeleteCircuit handles DELETE /circuits/{circuitID}
func (h *CircuitHandler) DeleteCircuit(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "circuitID")); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "circuit deleted"})
}

// DuplicateCircuit handles POST /circuits/{circuitID}/duplicate
func (h *CircuitHandler) DuplicateCircuit(w http.ResponseWriter, r *http.Request) {
	var req DuplicateRequest
	if r.ContentLength > 0 {
		if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
		if err := h.validate.Struct(req); err != nil {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}

	doc, err := h.service.Duplicate(r.Context(), chi.URLParam(r, "circuitID"), req.Name)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, doc)
}

// ExportCircuit handles GET /circuits/{circuitID}/export
func (h *CircuitHandler) ExportCircuit(w http.ResponseWriter, r *http.Request) {
	export, err := h.service.Export(r.Context(), chi.URLParam(r, "circuitID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, export)
}

func (h *CircuitHandler) parseCircuitRequest(w http.ResponseWriter, r *http.Request) (CircuitRequest, bool) {
	var req CircuitRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return CircuitRequest{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return CircuitRequest{}, false
	}
	return req, true
}

func toDocument(req CircuitRequest) aggregates.CircuitDocument {
	return aggregates.CircuitDocument{
		Name:        req.Name,
		Description: req.Description,
		Components:  req.Components,
		Connections: req.Connections,
		Metadata:    req.Metadata,
		IsPublic:    req.IsPublic,
	}
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			return n
		}
	}
	return defaultValue
}
