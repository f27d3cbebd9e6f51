package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore writes images to a directory served by the storefront under
// baseURL (e.g. "/uploads").
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create dir %q: %w", dir, err)
	}
	return &LocalStore{dir: dir, baseURL: baseURL}, nil
}

// Save copies the image to disk under a UUID-prefixed name, so uploads
// with the same original filename never clobber each other.
func (l *LocalStore) Save(_ context.Context, filename, contentType string, size int64, r io.Reader) (*Upload, error) {
	if err := validate(contentType, size); err != nil {
		return nil, err
	}

	name := uuid.New().String() + filepath.Ext(filename)
	path := filepath.Join(l.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("upload: create %q: %w", path, err)
	}

	// LimitReader backstops clients that lie about the size header.
	written, err := io.Copy(f, io.LimitReader(r, MaxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("upload: write %q: %w", path, err)
	}
	if written > MaxSize {
		os.Remove(path)
		return nil, validate(contentType, written)
	}

	return &Upload{
		URL:      l.baseURL + "/" + name,
		Filename: filename,
		Size:     written,
		Type:     contentType,
	}, nil
}
