package handlers

import (
	"context"
	"net/http"
	"time"

	"challengeTrackerAPI/middleware"
	"challengeTrackerAPI/services"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// GET /api/v1/leaderboard. Signed-in callers also get their own position.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	viewerID, _ := middleware.GetUserID(ctx)

	board, err := h.leaderboardService.GetLeaderboard(ctx, viewerID)
	if err != nil {
		respondWithServiceError(w, "GetLeaderboard", err, "Failed to load leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}
