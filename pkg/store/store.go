package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"droscher.com/OhioBrewPath/pkg/model"
)

var ErrDuplicateDetailURL = errors.New("duplicate detail url in store")

// Store persists the brewery collection as a JSON file. The whole
// collection is read at run start and written back as one replacement
// snapshot at run end; there are no partial writes.
type Store struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads the full collection. A missing file is an empty
// collection, not an error, so a first run starts from scratch.
func (s *Store) Load() (*Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("store file not found, starting empty", zap.String("path", s.path))

			return newCollection(nil)
		}

		return nil, err
	}

	var records []*model.Brewery
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode store %s: %w", s.path, err)
	}

	s.logger.Info("loaded record store", zap.String("path", s.path), zap.Int("records", len(records)))

	return newCollection(records)
}

// Save atomically replaces the store file with the full collection.
// The snapshot is written to a temp file in the same directory and
// renamed into place so readers never observe a partial write.
func (s *Store) Save(collection *Collection) error {
	data, err := json.MarshalIndent(collection.All(), "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".breweries-*.json")
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

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())

		return err
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())

		return err
	}

	s.logger.Info("saved record store", zap.String("path", s.path), zap.Int("records", collection.Len()))

	return nil
}
