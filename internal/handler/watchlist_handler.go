package handler

import (
	"encoding/json"
	"net/http"

	"duper-mart/internal/model"
	"duper-mart/internal/service"

	"github.com/rs/zerolog"
)

// WatchlistHandler handles watchlist HTTP requests.
type WatchlistHandler struct {
	service service.WatchlistService
	logger  zerolog.Logger
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(service service.WatchlistService, logger zerolog.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		service: service,
		logger:  logger.With().Str("handler", "watchlist").Logger(),
	}
}

// Get handles GET /api/users/{userId}/watchlist requests.
func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "user ID", h.logger)
	if !ok {
		return
	}

	entries, err := h.service.GetByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// Add handles POST /api/users/{userId}/watchlist requests. Adding a product
// already on the list returns 200 with the existing entry instead of 201.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "user ID", h.logger)
	if !ok {
		return
	}

	var req model.WatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	req.UserID = userID

	entry, created, err := h.service.Add(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, entry)
}

// Remove handles DELETE /api/users/{userId}/watchlist/{productId} requests.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userId", "user ID", h.logger)
	if !ok {
		return
	}
	productID, ok := pathUUID(w, r, "productId", "product ID", h.logger)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), userID, productID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
