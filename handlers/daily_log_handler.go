package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"challengeTrackerAPI/internal/types/dailylog"
	"challengeTrackerAPI/middleware"
	"challengeTrackerAPI/services"
)

type DailyLogHandler struct {
	dailyLogService *services.DailyLogService
}

func NewDailyLogHandler(dailyLogService *services.DailyLogService) *DailyLogHandler {
	return &DailyLogHandler{dailyLogService: dailyLogService}
}

// PUT /api/v1/challenges/{id}/logs/{date} saves the caller's entry for that
// day. Saving the same day again overwrites it.
func (h *DailyLogHandler) SaveDailyLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req dailylog.SaveDailyLogRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vars := mux.Vars(r)
	saved, err := h.dailyLogService.SaveDailyLog(ctx, userID, vars["id"], vars["date"], &req)
	if err != nil {
		respondWithServiceError(w, "SaveDailyLog", err, "Failed to save log")
		return
	}

	respondWithJSON(w, http.StatusOK, saved)
}

// POST /api/v1/logs/{id}/like
func (h *DailyLogHandler) LikeDailyLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	err := h.dailyLogService.LikeDailyLog(ctx, userID, mux.Vars(r)["id"])
	respondWithServiceError(w, "LikeDailyLog", err, "Failed to like log")
}

// GET /api/v1/feed?limit=50 spans every challenge.
func (h *DailyLogHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.dailyLogService.GetFeed(ctx, "", queryInt(r, "limit", 0))
	if err != nil {
		respondWithServiceError(w, "GetFeed", err, "Failed to load feed")
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}
