package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"challengeTrackerAPI/internal/storage"
	"challengeTrackerAPI/internal/types/upload"
)

// Presigner signs direct-to-bucket uploads. storage.S3Storage implements it.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string) (*storage.PresignedUpload, error)
}

var uploadPrefixes = map[upload.Kind]string{
	upload.KindLogPhoto: "logs",
	upload.KindCover:    "covers",
	upload.KindAvatar:   "avatars",
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

type UploadService struct {
	presigner Presigner
}

// NewUploadService accepts a nil presigner when object storage is not configured.
func NewUploadService(presigner Presigner) *UploadService {
	return &UploadService{presigner: presigner}
}

// Presign returns a signed PUT URL under a key owned by userID.
func (s *UploadService) Presign(ctx context.Context, userID string, req *upload.PresignRequest) (*storage.PresignedUpload, error) {
	if s.presigner == nil {
		return nil, fmt.Errorf("%w: uploads are not configured", ErrNotSupported)
	}

	prefix, ok := uploadPrefixes[req.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown upload kind %q", ErrInvalidInput, req.Kind)
	}
	ext, ok := imageExtensions[req.ContentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidInput, req.ContentType)
	}

	key := fmt.Sprintf("%s/%s/%s%s", prefix, userID, uuid.NewString(), ext)
	return s.presigner.PresignUpload(ctx, key, req.ContentType)
}
