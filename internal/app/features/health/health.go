// internal/app/features/health/health.go
package health

import (
	"net/http"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/jsonutil"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler provides health check endpoints.
type Handler struct {
	mongoClient *mongo.Client // nil when outcomes come from the built-in fixtures
	dataSource  string
	logger      *zap.Logger
}

// NewHandler creates a new health check Handler. mongoClient may be nil.
func NewHandler(mongoClient *mongo.Client, dataSource string, logger *zap.Logger) *Handler {
	return &Handler{
		mongoClient: mongoClient,
		dataSource:  dataSource,
		logger:      logger,
	}
}

// Response represents the health check response.
type Response struct {
	Status     string            `json:"status"`
	DataSource string            `json:"data_source"`
	Services   map[string]string `json:"services,omitempty"`
}

// Routes returns a chi.Router with health check routes mounted.
// Provides /health (full check), /health/ready, and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds /ready, /readyz and /livez directly on the root router.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// ping reports whether the records backend answers. Without a Mongo
// client there is nothing to ping.
func (h *Handler) ping(r *http.Request) error {
	if h.mongoClient == nil {
		return nil
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.logger, "health ping")
	defer cancel()
	return h.mongoClient.Ping(ctx, readpref.Primary())
}

// Check performs a full health check including database connectivity.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := Response{
		Status:     "ok",
		DataSource: h.dataSource,
		Services:   make(map[string]string),
	}

	if h.mongoClient != nil {
		if err := h.ping(r); err != nil {
			resp.Status = "degraded"
			resp.Services["mongodb"] = "unavailable"
			h.logger.Warn("health check: mongodb ping failed", zap.Error(err))
		} else {
			resp.Services["mongodb"] = "ok"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	jsonutil.JSON(w, status, resp)
}

// Ready checks if the service is ready to accept requests.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.ping(r); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		jsonutil.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	jsonutil.OK(w, map[string]string{"status": "ready"})
}

// Live checks if the service is alive.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]string{"status": "alive"})
}
