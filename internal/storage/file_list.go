package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/wthr-dev/wthr/internal/logger"
	"github.com/wthr-dev/wthr/internal/models"
)

// FileList persists the city reference list as a JSON array in a single file.
// Every method is best effort: failures are logged and never returned.
type FileList struct {
	path string
	l    *logger.Logger
}

// NewFileList creates a list stored at path. A nil logger discards messages.
func NewFileList(path string, l *logger.Logger) *FileList {
	if l == nil {
		l = logger.Nop()
	}
	return &FileList{path: path, l: l}
}

// Path returns the backing file path
func (f *FileList) Path() string {
	return f.path
}

// Read returns the stored references. A missing, unreadable or malformed file
// yields an empty list; entries without a positive id or a name are dropped.
func (f *FileList) Read() []models.StoredCity {
	// #nosec G304 -- path is fixed by configuration
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.l.Warning("failed to read stored cities", map[string]any{"path": f.path, "error": err.Error()})
		}
		return []models.StoredCity{}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		f.l.Warning("failed to parse stored cities", map[string]any{"path": f.path, "error": err.Error()})
		return []models.StoredCity{}
	}

	cities := make([]models.StoredCity, 0, len(raw))
	for _, item := range raw {
		var ref models.StoredCity
		if err := json.Unmarshal(item, &ref); err != nil || !ref.Valid() {
			continue
		}
		cities = append(cities, ref)
	}

	return cities
}

// Write replaces the stored list with cities
func (f *FileList) Write(cities []models.StoredCity) {
	if cities == nil {
		cities = []models.StoredCity{}
	}

	if err := f.write(cities); err != nil {
		f.l.Warning("failed to persist cities", map[string]any{
			"path":  f.path,
			"count": len(cities),
			"error": err.Error(),
		})
	}
}

func (f *FileList) write(cities []models.StoredCity) error {
	data, err := json.Marshal(cities)
	if err != nil {
		return err
	}

	// 0750 for the directory, 0600 for the file: the list is private to the user
	if err := os.MkdirAll(filepath.Dir(f.path), 0750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".cities-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, f.path)
}

// Clear removes the stored list
func (f *FileList) Clear() {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		f.l.Warning("failed to clear stored cities", map[string]any{"path": f.path, "error": err.Error()})
	}
}
