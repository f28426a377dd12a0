package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/legacykeep/legacykeep-client/internal/platform/logger"
)

type fileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository stores preferences as a flat JSON object at path.
func NewFileRepository(path string) Repository {
	return &fileRepository{path: path}
}

func (r *fileRepository) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.read()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", ErrPreferenceNotFound
	}
	return v, nil
}

func (r *fileRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.read()
	if err != nil {
		return err
	}
	values[key] = value
	return r.write(values)
}

func (r *fileRepository) read() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		logger.Error("Preferences file %s is corrupt, starting over", err, r.path)
		return map[string]string{}, nil
	}
	return values, nil
}

// write replaces the file through a temp file and rename so a crash never
// leaves a half-written file behind.
func (r *fileRepository) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preferences-*.json")
	if err != nil {
		return fmt.Errorf("creating temp preferences file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replacing preferences file: %w", err)
	}
	return nil
}
