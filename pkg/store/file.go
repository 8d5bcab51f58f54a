package store

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// FileStore persists blobs as files under a data directory:
//
//	<dir>/version     schema version integer
//	<dir>/room/       singleton room slot
//	<dir>/floors/     one file per SKU
//
// Floor files carry a .bin extension so SKUs never collide with directory
// housekeeping files. SKUs are validated before touching the filesystem.
type FileStore struct {
	dir string
}

const (
	roomDir     = "room"
	floorsDir   = "floors"
	versionFile = "version"
	blobExt     = ".bin"
)

// NewFileStore opens (or creates) a file store in dir.
// Missing partitions are created; an unknown future schema version is
// rejected rather than silently rewritten.
func NewFileStore(dir string) (*FileStore, error) {
	for _, sub := range []string{roomDir, floorsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreWrite, err, "create store partition %s", sub)
		}
	}

	versionPath := filepath.Join(dir, versionFile)
	raw, err := os.ReadFile(versionPath)
	switch {
	case os.IsNotExist(err):
		if err := os.WriteFile(versionPath, []byte(strconv.Itoa(SchemaVersion)), 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreWrite, err, "write schema version")
		}
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeStoreRead, err, "read schema version")
	default:
		v, convErr := strconv.Atoi(strings.TrimSpace(string(raw)))
		if convErr != nil || v > SchemaVersion {
			return nil, errors.New(errors.ErrCodeStoreRead,
				"unsupported store schema version %q (supported <= %d)", strings.TrimSpace(string(raw)), SchemaVersion)
		}
		// v <= SchemaVersion: partitions already created above is the only
		// migration the current schema needs.
	}

	return &FileStore{dir: dir}, nil
}

func (s *FileStore) roomPath() string {
	return filepath.Join(s.dir, roomDir, RoomKey+blobExt)
}

func (s *FileStore) floorPath(sku string) string {
	return filepath.Join(s.dir, floorsDir, sku+blobExt)
}

// PutRoom replaces the room slot.
func (s *FileStore) PutRoom(ctx context.Context, data []byte) error {
	if err := os.WriteFile(s.roomPath(), data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "write room blob")
	}
	return nil
}

// Room returns the room slot, or a miss when no room was ever saved.
func (s *FileStore) Room(ctx context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.roomPath())
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStoreRead, err, "read room blob")
	}
	return data, true, nil
}

// PutFloor writes a generated artifact, overwriting any previous one.
func (s *FileStore) PutFloor(ctx context.Context, sku string, data []byte) error {
	if err := errors.ValidateSKU(sku); err != nil {
		return err
	}
	if err := os.WriteFile(s.floorPath(sku), data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "write floor blob %s", sku)
	}
	return nil
}

// Floor returns the artifact for a SKU.
func (s *FileStore) Floor(ctx context.Context, sku string) ([]byte, bool, error) {
	if err := errors.ValidateSKU(sku); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(s.floorPath(sku))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStoreRead, err, "read floor blob %s", sku)
	}
	return data, true, nil
}

// FloorSKUs lists every persisted SKU.
func (s *FileStore) FloorSKUs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, floorsDir))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreRead, err, "list floors partition")
	}

	skus := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, blobExt) {
			continue
		}
		skus = append(skus, strings.TrimSuffix(name, blobExt))
	}
	return skus, nil
}

// ClearFloors removes every entry in the floors partition.
func (s *FileStore) ClearFloors(ctx context.Context) error {
	skus, err := s.FloorSKUs(ctx)
	if err != nil {
		return err
	}
	for _, sku := range skus {
		if err := os.Remove(s.floorPath(sku)); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeStoreWrite, err, "remove floor blob %s", sku)
		}
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error {
	return nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
