// Package prefs persists per-user preferences for the visualizer, chiefly
// the favorited product set. Preferences are stored as a JSON file in the
// data directory and guarded by a mutex for concurrent HTTP handlers.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// document is the on-disk shape of the preferences file.
type document struct {
	Favorites []string  `json:"favorites"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileStore is a file-backed preferences store.
type FileStore struct {
	mu        sync.RWMutex
	path      string
	favorites map[string]struct{}
}

// NewFileStore opens (or creates) the preferences file under dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreWrite, err, "create prefs dir")
	}
	s := &FileStore{
		path:      filepath.Join(dir, "prefs.json"),
		favorites: make(map[string]struct{}),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(errors.ErrCodeStoreRead, err, "read prefs file")
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreRead, err, "parse prefs file")
	}
	for _, sku := range doc.Favorites {
		s.favorites[sku] = struct{}{}
	}
	return s, nil
}

// Toggle flips the favorite state of a SKU and reports the new state.
func (s *FileStore) Toggle(sku string) (favorited bool, err error) {
	if err := errors.ValidateSKU(sku); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.favorites[sku]; ok {
		delete(s.favorites, sku)
	} else {
		s.favorites[sku] = struct{}{}
		favorited = true
	}
	if err := s.flushLocked(); err != nil {
		return favorited, err
	}
	return favorited, nil
}

// IsFavorite reports whether a SKU is favorited.
func (s *FileStore) IsFavorite(sku string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favorites[sku]
	return ok
}

// Favorites returns the favorited SKUs in sorted order.
func (s *FileStore) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.favorites))
	for sku := range s.favorites {
		out = append(out, sku)
	}
	sort.Strings(out)
	return out
}

// Clear removes every favorite.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites = make(map[string]struct{})
	return s.flushLocked()
}

// Path returns the preferences file path.
func (s *FileStore) Path() string {
	return s.path
}

// flushLocked writes the current state to disk. Callers hold the write lock.
func (s *FileStore) flushLocked() error {
	doc := document{
		Favorites: make([]string, 0, len(s.favorites)),
		UpdatedAt: time.Now().UTC(),
	}
	for sku := range s.favorites {
		doc.Favorites = append(doc.Favorites, sku)
	}
	sort.Strings(doc.Favorites)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "marshal prefs")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "write prefs file")
	}
	return nil
}
