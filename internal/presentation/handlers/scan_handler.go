package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/application/services"
	"github.com/tokenwatch/token-health/internal/domain/entities"
	"github.com/tokenwatch/token-health/internal/presentation/middleware"
)

// ScanHandler handles HTTP requests for token health scans
type ScanHandler struct {
	service *services.HealthService
	logger  *zap.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(service *services.HealthService, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the scan routes
func (h *ScanHandler) RegisterRoutes(r chi.Router) {
	r.Get("/scan", h.Scan)
	r.Post("/scan", h.ScanBody)
}

// ScanResponse is the API response for scan queries
type ScanResponse struct {
	Data *entities.HealthMetrics `json:"data"`
}

// scanRequest is the POST body form of a scan request
type scanRequest struct {
	Query        string `json:"query"`
	NetworkHint  string `json:"network_hint"`
	KnownHandles struct {
		Social   string `json:"social"`
		CodeRepo string `json:"code_repo"`
	} `json:"known_handles"`
	ForceRefresh bool `json:"force_refresh"`
}

// Scan handles GET /api/v1/scan?query=...
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := entities.TokenQuery{
		Raw:          params.Get("query"),
		NetworkHint:  params.Get("network"),
		SocialHandle: params.Get("social"),
		CodeRepo:     params.Get("code_repo"),
		ForceRefresh: params.Get("refresh") == "true",
	}
	h.runScan(w, r, query)
}

// ScanBody handles POST /api/v1/scan
func (h *ScanHandler) ScanBody(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	query := entities.TokenQuery{
		Raw:          req.Query,
		NetworkHint:  req.NetworkHint,
		SocialHandle: req.KnownHandles.Social,
		CodeRepo:     req.KnownHandles.CodeRepo,
		ForceRefresh: req.ForceRefresh,
	}
	h.runScan(w, r, query)
}

func (h *ScanHandler) runScan(w http.ResponseWriter, r *http.Request, query entities.TokenQuery) {
	if query.Raw == "" {
		h.respondError(w, http.StatusBadRequest, "Missing query")
		return
	}

	ctx := r.Context()
	userID := middleware.UserID(ctx)

	metrics, err := h.service.Scan(ctx, query, userID)
	if err != nil {
		if errors.Is(err, services.ErrNothingComputable) {
			h.respondError(w, http.StatusNotFound, "Token not found")
			return
		}
		h.logger.Error("Scan failed", zap.String("query", query.Raw), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to scan token")
		return
	}

	h.respondJSON(w, http.StatusOK, ScanResponse{Data: metrics})
}

func (h *ScanHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *ScanHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
