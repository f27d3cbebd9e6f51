package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/habbo-store/internal/domain"
)

func newLocalStore(t *testing.T) (*LocalStore, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	return store, dir
}

func TestSaveImage(t *testing.T) {
	store, dir := newLocalStore(t)
	content := "fake png bytes"

	got, err := store.Save(context.Background(), "sofa.png", "image/png", int64(len(content)), strings.NewReader(content))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(got.URL, ".png"))
	assert.Equal(t, "sofa.png", got.Filename)
	assert.Equal(t, int64(len(content)), got.Size)
	assert.Equal(t, "image/png", got.Type)

	// The stored name keeps the extension but not the original name, so
	// repeated uploads of "sofa.png" never clobber each other.
	name := strings.TrimPrefix(got.URL, "/uploads/")
	assert.NotEqual(t, "sofa.png", name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestSaveRejectsNonImage(t *testing.T) {
	store, dir := newLocalStore(t)

	_, err := store.Save(context.Background(), "notes.txt", "text/plain", 12, strings.NewReader("not an image"))

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "file", validationErr.Field)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveRejectsOversizedHeader(t *testing.T) {
	store, dir := newLocalStore(t)

	_, err := store.Save(context.Background(), "huge.png", "image/png", MaxSize+1, strings.NewReader("x"))

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveRejectsOversizedBody(t *testing.T) {
	// The declared size lies; the copy itself hits the cap and the partial
	// file is removed.
	store, dir := newLocalStore(t)
	body := strings.NewReader(strings.Repeat("x", int(MaxSize)+2))

	_, err := store.Save(context.Background(), "liar.png", "image/png", 10, body)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
