package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"larder-service/internal/models"
	"larder-service/pkg/response"
)

// Storage persists the whole shop document as one JSON file. Saves are
// atomic: written to a temp file in the same directory and renamed over the
// target.
type Storage struct {
	path string
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.file.New"

	if storagePath == "" {
		return nil, fmt.Errorf("%s: storage path is empty", op)
	}

	if err := os.MkdirAll(filepath.Dir(storagePath), 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{path: storagePath}, nil
}

func (s *Storage) Save(ctx context.Context, doc *models.Document) error {
	const op = "storage.file.Save"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".larder-*.json")
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}

	return nil
}

// Load reads the document. A missing file is not an error: it returns
// ErrNotFound so the caller can start from defaults.
func (s *Storage) Load(ctx context.Context) (*models.Document, error) {
	const op = "storage.file.Load"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}

	return &doc, nil
}

func (s *Storage) Close() error {
	return nil
}
