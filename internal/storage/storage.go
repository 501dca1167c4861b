// Package storage persists uploaded ticket images and returns their public URL.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/ticketdesk/ticketdesk-service/pkg/util/errorutil"
)

// ImageStore writes an image and returns the URL clients use to fetch it.
// Delete takes a URL returned by Save.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectName builds a collision-free key from the client file name.
func ObjectName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "image"
	}
	if len(base) > 100 {
		base = base[len(base)-100:]
	}
	return uuid.NewString() + "-" + base
}

// ValidateImage rejects non-image uploads and files over maxBytes.
func ValidateImage(contentType string, size, maxBytes int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return apperrors.NewValidationError("only image uploads are allowed", map[string]any{
			"imageFile": "must be an image",
		})
	}
	if maxBytes > 0 && size > maxBytes {
		return apperrors.NewValidationError("image is too large", map[string]any{
			"imageFile": "exceeds the maximum upload size",
		})
	}
	return nil
}
