package handlers

import (
	"context"
	"net/http"
	"time"

	"challengeTrackerAPI/internal/types/user"
	"challengeTrackerAPI/middleware"
	"challengeTrackerAPI/services"
)

type UserHandler struct {
	userService        *services.UserService
	challengeService   *services.ChallengeService
	dailyLogService    *services.DailyLogService
	leaderboardService *services.LeaderboardService
}

func NewUserHandler(userService *services.UserService, challengeService *services.ChallengeService, dailyLogService *services.DailyLogService, leaderboardService *services.LeaderboardService) *UserHandler {
	return &UserHandler{
		userService:        userService,
		challengeService:   challengeService,
		dailyLogService:    dailyLogService,
		leaderboardService: leaderboardService,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		respondWithServiceError(w, "GetProfile", err, "Failed to load profile")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.userService.UpdateProfile(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, "UpdateProfile", err, "Failed to update profile")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stats, err := h.leaderboardService.GetUserStats(ctx, userID)
	if err != nil {
		respondWithServiceError(w, "GetUserStats", err, "Failed to load stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

func (h *UserHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	achievements, err := h.leaderboardService.GetAchievements(ctx, userID)
	if err != nil {
		respondWithServiceError(w, "GetAchievements", err, "Failed to load achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, achievements)
}

// GET /api/v1/user/calendar?year=2025&month=1
func (h *UserHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	now := time.Now().UTC()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))

	cal, err := h.dailyLogService.GetCalendar(ctx, userID, year, month)
	if err != nil {
		respondWithServiceError(w, "GetCalendar", err, "Failed to load calendar")
		return
	}

	respondWithJSON(w, http.StatusOK, cal)
}

// GET /api/v1/user/journal?challengeId=...
func (h *UserHandler) GetJournal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	logs, err := h.dailyLogService.GetJournal(ctx, userID, r.URL.Query().Get("challengeId"))
	if err != nil {
		respondWithServiceError(w, "GetJournal", err, "Failed to load journal")
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}

func (h *UserHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	progress, err := h.dailyLogService.GetChallengeProgress(ctx, userID)
	if err != nil {
		respondWithServiceError(w, "GetProgress", err, "Failed to load progress")
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}

// GET /api/v1/user/challenges splits the catalog into joined and available.
func (h *UserHandler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	overview, err := h.challengeService.ListForUser(ctx, userID)
	if err != nil {
		respondWithServiceError(w, "GetUserChallenges", err, "Failed to load challenges")
		return
	}

	respondWithJSON(w, http.StatusOK, overview)
}
