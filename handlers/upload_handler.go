package handlers

import (
	"context"
	"net/http"
	"time"

	"challengeTrackerAPI/internal/types/upload"
	"challengeTrackerAPI/middleware"
	"challengeTrackerAPI/services"
)

type UploadHandler struct {
	uploadService *services.UploadService
}

func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// POST /api/v1/uploads/presign returns a URL the client PUTs the image to.
func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req upload.PresignRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	presigned, err := h.uploadService.Presign(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, "Presign", err, "Failed to prepare upload")
		return
	}

	respondWithJSON(w, http.StatusOK, presigned)
}
