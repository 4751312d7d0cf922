package bboyzero

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxUploadBytes bounds the decoded size of an inline image upload.
const MaxUploadBytes = 8 << 20

// imageExtensions maps accepted upload MIME types to storage file
// extensions. Anything else is skipped, not rejected.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// SaveUploadedImage stores an inline base64 image in object storage and
// returns its public URL. A nil upload, an unrecognized MIME type, an
// empty or malformed payload, or one larger than MaxUploadBytes is
// skipped and returns "" with no error; only a failed storage write is
// fatal. The storage key combines a millisecond timestamp with a fresh
// UUID so concurrent uploads cannot collide.
func (s *Service) SaveUploadedImage(ctx context.Context, upload *ImageUpload) (string, error) {
	if upload == nil {
		return "", nil
	}

	mimeType := strings.TrimSpace(upload.MimeType)
	encoded := strings.TrimSpace(upload.DataBase64)

	ext, ok := imageExtensions[mimeType]
	if !ok || encoded == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) == 0 || len(raw) > MaxUploadBytes {
		return "", nil
	}

	key := fmt.Sprintf("events/%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)

	if err := s.store.UploadObject(ctx, key, mimeType, raw); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return s.store.PublicObjectURL(key), nil
}
