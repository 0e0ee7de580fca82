package handlers

import (
	"context"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"challengeTrackerAPI/internal/types/user"
	"challengeTrackerAPI/middleware"
	"challengeTrackerAPI/services"
)

const minPasswordLength = 6

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.SignUpRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch {
	case strings.TrimSpace(req.Name) == "":
		respondWithError(w, http.StatusBadRequest, "name is required")
		return
	case !validEmail(req.Email):
		respondWithError(w, http.StatusBadRequest, "a valid email is required")
		return
	case len(req.Password) < minPasswordLength:
		respondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	resp, err := h.userService.SignUp(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, "SignUp", err, "Signup failed. Please try again.")
		return
	}

	respondWithJSON(w, http.StatusCreated, resp)
}

// POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	resp, err := h.userService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, "SignIn", err, "Login failed. Please try again.")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	principal, ok := middleware.GetPrincipal(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.userService.SignOut(ctx, principal.SessionID); err != nil {
		respondWithServiceError(w, "SignOut", err, "Failed to sign out")
		return
	}

	log.Printf("SignOut Handler: user %s signed out", principal.UserID)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

// GET /api/v1/auth/session restores the session behind the bearer token, if
// any. A missing or stale session yields a null user, not an error.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	token, ok := middleware.GetToken(ctx)
	if !ok {
		respondWithJSON(w, http.StatusOK, user.SessionResponse{})
		return
	}

	u, err := h.userService.RestoreSession(ctx, token)
	if err != nil {
		respondWithServiceError(w, "Session", err, "Failed to restore session")
		return
	}

	respondWithJSON(w, http.StatusOK, user.SessionResponse{User: u})
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	return err == nil && addr.Address == strings.TrimSpace(email)
}
