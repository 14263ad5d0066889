package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/services"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/simulation"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/common"
)

// SimulationHandler serves the simulation endpoints
type SimulationHandler struct {
	service  *services.SimulationService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(service *services.SimulationService, logger *zap.Logger) *SimulationHandler {
	return &SimulationHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RunSimulation handles POST /simulate/run
func (h *SimulationHandler) RunSimulation(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseRequest(w, r, true)
	if !ok {
		return
	}

	result, err := h.service.Run(r.Context(), req)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// ValidateCircuit handles POST /simulate/validate
func (h *SimulationHandler) ValidateCircuit(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseRequest(w, r, false)
	if !ok {
		return
	}

	report, err := h.service.Validate(r.Context(), req)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, report)
}

// SimulationStatus handles GET /simulate/status/{simulationID}
func (h *SimulationHandler) SimulationStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context(), chi.URLParam(r, "simulationID"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, status)
}

// parseRequest decodes and validates a simulation request. Validation
// pre-flight calls skip the analysis-window checks: the window only
// matters for an actual run.
func (h *SimulationHandler) parseRequest(w http.ResponseWriter, r *http.Request, full bool) (simulation.Request, bool) {
	var req simulation.Request
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return simulation.Request{}, false
	}

	if full {
		if err := h.validate.Struct(req); err != nil {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return simulation.Request{}, false
		}
	}
	return req, true
}
