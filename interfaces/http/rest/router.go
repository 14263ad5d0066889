// Package rest wires the HTTP surface of the circuit services
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/services"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/infrastructure/config"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/interfaces/http/rest/handlers"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/interfaces/http/rest/middleware"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	circuits   *services.CircuitService
	simulation *services.SimulationService
	cfg        *config.Config
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	circuits *services.CircuitService,
	simulation *services.SimulationService,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		circuits:   circuits,
		simulation: simulation,
		cfg:        cfg,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		// Without a configured secret (local development) the API runs open
		if rt.cfg.JWTSecret != "" {
			validator, err := auth.NewJWTValidator(auth.JWTConfig{
				SecretKey: rt.cfg.JWTSecret,
				Issuer:    rt.cfg.JWTIssuer,
			})
			if err != nil {
				rt.logger.Fatal("failed to create JWT validator", zap.Error(err))
			}
			r.Use(middleware.Authenticate(validator, rt.logger))
		}

		// Circuit endpoints
		r.Route("/circuits", func(r chi.Router) {
			circuitHandler := handlers.NewCircuitHandler(rt.circuits, rt.logger)
			r.Get("/", circuitHandler.ListCircuits)
			r.Post("/", circuitHandler.CreateCircuit)
			r.Get("/{circuitID}", circuitHandler.GetCircuit)
			r.Put("/{circuitID}", circuitHandler.UpdateCircuit)
			r.Delete("/{circuitID}", circuitHandler.DeleteCircuit)
			r.Post("/{circuitID}/duplicate", circuitHandler.DuplicateCircuit)
			r.Get("/{circuitID}/export", circuitHandler.ExportCircuit)
		})

		// Simulation endpoints
		r.Route("/simulate", func(r chi.Router) {
			simulationHandler := handlers.NewSimulationHandler(rt.simulation, rt.logger)
			r.Post("/run", simulationHandler.RunSimulation)
			r.Post("/validate", simulationHandler.ValidateCircuit)
			r.Get("/status/{simulationID}", simulationHandler.SimulationStatus)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
