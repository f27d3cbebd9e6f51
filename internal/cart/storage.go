package cart

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// FileStorage persists the cart snapshot as a JSON file — the durable
// local key-value slot for a single browser-less session (CLI, tests).
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Save writes the snapshot atomically: write to a temp file in the same
// directory, then rename over the slot.
func (f *FileStorage) Save(_ context.Context, s State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".cart-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *FileStorage) Load(_ context.Context) (State, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return State{}, false
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, false
	}
	return s, true
}
