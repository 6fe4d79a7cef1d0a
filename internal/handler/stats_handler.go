package handler

import (
	"net/http"
	"strconv"

	"duper-mart/internal/model"
	"duper-mart/internal/service"

	"github.com/rs/zerolog"
)

// defaultTopN is the ranking size used when the request does not ask for a
// specific one.
const defaultTopN = 3

// StatsHandler handles sales analytics HTTP requests.
type StatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(service service.StatsService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With().Str("handler", "stats").Logger(),
	}
}

// Frequent handles GET /api/users/{userId}/stats/frequent requests.
func (h *StatsHandler) Frequent(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "user ID", h.logger)
	if !ok {
		return
	}
	topN, ok := h.topN(w, r)
	if !ok {
		return
	}

	stats, err := h.service.MostFrequentlyPurchased(r.Context(), userID, topN)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Recent handles GET /api/users/{userId}/stats/recent requests.
func (h *StatsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "user ID", h.logger)
	if !ok {
		return
	}
	topN, ok := h.topN(w, r)
	if !ok {
		return
	}

	stats, err := h.service.MostRecentlyPurchased(r.Context(), userID, topN)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Profitable handles GET /api/stats/profitable requests.
func (h *StatsHandler) Profitable(w http.ResponseWriter, r *http.Request) {
	topN, ok := h.topN(w, r)
	if !ok {
		return
	}

	stats, err := h.service.MostProfitable(r.Context(), topN)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Popular handles GET /api/stats/popular requests.
func (h *StatsHandler) Popular(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.MostPopular(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// TopSelling handles GET /api/stats/top-selling requests.
func (h *StatsHandler) TopSelling(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.TopSellingProduct(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if stats == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, "no products sold yet", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Sales handles GET /api/stats/sales requests.
func (h *StatsHandler) Sales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.ProductSales(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, sales)
}

// OrderCount handles GET /api/stats/orders/count requests.
func (h *StatsHandler) OrderCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.TotalOrderCount(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *StatsHandler) topN(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return defaultTopN, true
	}

	topN, err := strconv.Atoi(raw)
	if err != nil || topN < 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid top parameter", h.logger)
		return 0, false
	}

	return topN, true
}
