package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/medguard/procedure-audit/internal/port"
)

// Storage persists uploaded artifacts in a fixed local directory. Stored names
// are uuid-prefixed so client filenames never collide, and lookups always
// resolve against the directory, never a network URL.
type Storage struct {
	dir string
}

// NewStorage creates the upload directory if needed and returns a store.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Save writes the uploaded content under a fresh name that keeps the original
// extension (the decoder routes on it) and returns the stored name.
func (s *Storage) Save(filename string, r io.Reader) (string, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create artifact file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write artifact file: %w", err)
	}
	return name, nil
}

// Load reads a previously stored artifact by its bare filename.
func (s *Storage) Load(filename string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(filename))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", port.ErrArtifactNotFound, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}
	return data, nil
}

// Path resolves a bare filename inside the upload directory. Any directory
// components are stripped so references cannot escape the directory.
func (s *Storage) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}
