// Package storage loads and saves the brain document.
package storage

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-ports/mind/internal/models"
)

// Store is the storage accessor handed to every command.
type Store interface {
	// GetBrain returns the persisted brain, or an empty one if nothing has
	// been saved yet.
	GetBrain() (*models.Brain, error)
	// SaveBrain replaces the persisted brain with b.
	SaveBrain(b *models.Brain) error
	// CreateSpace adds an empty space and persists it.
	CreateSpace(name, description string) error
}

// createSpace is the get, validate, mutate, save sequence shared by stores.
func createSpace(s Store, name, description string) error {
	b, err := s.GetBrain()
	if err != nil {
		return err
	}
	if b.Has(name) {
		return models.SpaceExists(name)
	}
	b.Put(name, models.NewSpace(description))
	return s.SaveBrain(b)
}

// ---------------------------------------------------------------------------
// File
// ---------------------------------------------------------------------------

// File keeps the brain as a single JSON document at Path.
type File struct {
	path string
	log  *slog.Logger
}

// NewFile returns a store backed by the document at path. A nil logger
// falls back to slog.Default.
func NewFile(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.Default()
	}
	return &File{path: path, log: logger}
}

// Path returns the document location.
func (f *File) Path() string { return f.path }

// GetBrain reads and validates the document.
func (f *File) GetBrain() (*models.Brain, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.log.Debug("storage: no document yet", "path", f.path)
		return models.NewBrain(), nil
	}
	if err != nil {
		return nil, models.WrapErrorf(models.ErrCorruptStorage, err, "Cannot read storage %s", f.path)
	}
	b, err := models.Decode(data)
	if err != nil {
		return nil, models.WrapErrorf(models.ErrCorruptStorage, err, "Storage %s is corrupt", f.path)
	}
	f.log.Debug("storage: loaded", "path", f.path, "spaces", b.Len())
	return b, nil
}

// SaveBrain rewrites the whole document. The new content is written to a
// temporary file in the same directory and renamed over the old one.
func (f *File) SaveBrain(b *models.Brain) error {
	data, err := models.Encode(b)
	if err != nil {
		return models.WrapErrorf(models.ErrIOError, err, "Cannot encode storage %s", f.path)
	}
	if err := writeFileAtomic(f.path, data); err != nil {
		return models.WrapErrorf(models.ErrIOError, err, "Cannot write storage %s", f.path)
	}
	f.log.Debug("storage: saved", "path", f.path, "spaces", b.Len(), "bytes", len(data))
	return nil
}

// CreateSpace adds an empty space named name.
func (f *File) CreateSpace(name, description string) error {
	return createSpace(f, name, description)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Memory
// ---------------------------------------------------------------------------

// Memory keeps the brain in process. Callers always get and hand over copies,
// so an unsaved mutation never leaks into the stored state.
type Memory struct {
	mu    sync.Mutex
	brain *models.Brain
	saves int

	// SaveErr, when set, is returned by SaveBrain instead of saving.
	SaveErr error
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{brain: models.NewBrain()}
}

// GetBrain returns a copy of the stored brain.
func (m *Memory) GetBrain() (*models.Brain, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.brain.Clone(), nil
}

// SaveBrain stores a copy of b.
func (m *Memory) SaveBrain(b *models.Brain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return models.WrapErrorf(models.ErrIOError, m.SaveErr, "Cannot write storage")
	}
	m.brain = b.Clone()
	m.saves++
	return nil
}

// CreateSpace adds an empty space named name.
func (m *Memory) CreateSpace(name, description string) error {
	return createSpace(m, name, description)
}

// Saves returns how many times SaveBrain succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
