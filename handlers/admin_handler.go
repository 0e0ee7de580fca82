package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"challengeTrackerAPI/internal/types/challenge"
	"challengeTrackerAPI/middleware"
	"challengeTrackerAPI/services"
)

// AdminHandler serves the catalog management routes. The router puts
// middleware.RequireAdmin in front of all of them.
type AdminHandler struct {
	challengeService *services.ChallengeService
}

func NewAdminHandler(challengeService *services.ChallengeService) *AdminHandler {
	return &AdminHandler{challengeService: challengeService}
}

// POST /api/v1/admin/challenges
func (h *AdminHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req challenge.CreateChallengeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Title) == "" || req.StartDate == "" || req.EndDate == "" {
		respondWithError(w, http.StatusBadRequest, "title, startDate and endDate are required")
		return
	}
	if req.Difficulty != "" && !req.Difficulty.Valid() {
		respondWithError(w, http.StatusBadRequest, "difficulty must be Beginner, Intermediate or Advanced")
		return
	}

	c, err := h.challengeService.CreateChallenge(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, "CreateChallenge", err, "Failed to create challenge")
		return
	}

	log.Printf("CreateChallenge Handler: %s created %s", userID, c.ID)
	respondWithJSON(w, http.StatusCreated, c)
}

// PUT /api/v1/admin/challenges/{id}
func (h *AdminHandler) UpdateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req challenge.UpdateChallengeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Difficulty != nil && !req.Difficulty.Valid() {
		respondWithError(w, http.StatusBadRequest, "difficulty must be Beginner, Intermediate or Advanced")
		return
	}

	c, err := h.challengeService.UpdateChallenge(ctx, mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithServiceError(w, "UpdateChallenge", err, "Failed to update challenge")
		return
	}
	if c == nil {
		respondWithError(w, http.StatusNotFound, "Challenge not found")
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

// DELETE /api/v1/admin/challenges/{id}
func (h *AdminHandler) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.challengeService.DeleteChallenge(ctx, mux.Vars(r)["id"]); err != nil {
		respondWithServiceError(w, "DeleteChallenge", err, "Failed to delete challenge")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.challengeService.AdminStats(ctx)
	if err != nil {
		respondWithServiceError(w, "AdminStats", err, "Failed to load stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}
