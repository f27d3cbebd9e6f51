// Package upload stores product images. The storefront core only depends
// on the Store port; whether bytes land on the local disk or an external
// image CDN is a deployment choice.
package upload

import (
	"context"
	"io"
	"strings"

	"github.com/jcmexdev/habbo-store/internal/domain"
)

// MaxSize is the upload limit in bytes.
const MaxSize = 5 << 20 // 5 MB

// Upload describes a stored image.
type Upload struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
}

// Store persists an uploaded image and returns where it ended up.
type Store interface {
	Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*Upload, error)
}

// validate enforces the shared constraints before any bytes move.
func validate(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return domain.Invalid("file", "must be an image")
	}
	if size > MaxSize {
		return domain.Invalid("file", "too large (5 MB maximum)")
	}
	return nil
}
