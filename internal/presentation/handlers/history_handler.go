package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tokenwatch/token-health/internal/application/services"
	"github.com/tokenwatch/token-health/internal/presentation/middleware"
)

// HistoryHandler handles HTTP requests for scan history
type HistoryHandler struct {
	service *services.HistoryService
	logger  *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service *services.HistoryService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the history routes
func (h *HistoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/history", h.GetHistory)
}

// GetHistory handles GET /api/v1/history
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.UserID(ctx)
	if userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil && o >= 0 {
			offset = o
		}
	}

	response, err := h.service.GetUserHistory(ctx, userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get scan history", zap.String("user_id", userID), zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to get scan history")
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

func (h *HistoryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *HistoryHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
