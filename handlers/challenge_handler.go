package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"challengeTrackerAPI/middleware"
	"challengeTrackerAPI/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	dailyLogService  *services.DailyLogService
}

func NewChallengeHandler(challengeService *services.ChallengeService, dailyLogService *services.DailyLogService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		dailyLogService:  dailyLogService,
	}
}

// GET /api/v1/challenges
func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	challenges, err := h.challengeService.ListChallenges(ctx)
	if err != nil {
		respondWithServiceError(w, "ListChallenges", err, "Failed to load challenges")
		return
	}

	respondWithJSON(w, http.StatusOK, challenges)
}

// GET /api/v1/challenges/{id}
func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.challengeService.GetChallenge(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, "GetChallenge", err, "Failed to load challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

// GET /api/v1/challenges/slug/{slug}
func (h *ChallengeHandler) GetChallengeBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.challengeService.GetChallengeBySlug(ctx, mux.Vars(r)["slug"])
	if err != nil {
		respondWithServiceError(w, "GetChallengeBySlug", err, "Failed to load challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

// POST /api/v1/challenges/{id}/join
func (h *ChallengeHandler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	c, err := h.challengeService.JoinChallenge(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, "JoinChallenge", err, "Failed to join challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

// DELETE /api/v1/challenges/{id}/join
func (h *ChallengeHandler) LeaveChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	err := h.challengeService.LeaveChallenge(ctx, userID, mux.Vars(r)["id"])
	respondWithServiceError(w, "LeaveChallenge", err, "Failed to leave challenge")
}

// GET /api/v1/challenges/{id}/feed?limit=20
func (h *ChallengeHandler) GetChallengeFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	challengeID := mux.Vars(r)["id"]
	if _, err := h.challengeService.GetChallenge(ctx, challengeID); err != nil {
		respondWithServiceError(w, "GetChallengeFeed", err, "Failed to load feed")
		return
	}

	items, err := h.dailyLogService.GetFeed(ctx, challengeID, queryInt(r, "limit", 0))
	if err != nil {
		respondWithServiceError(w, "GetChallengeFeed", err, "Failed to load feed")
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}
