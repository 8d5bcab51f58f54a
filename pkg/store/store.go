// Package store provides the durable local blob store backing the artifact
// gallery.
//
// The store has two logical partitions:
//   - a singleton "room" slot holding the uploaded room photo
//   - a "floors" partition holding generated artifacts keyed by product SKU
//
// Both partitions hold raw binary blobs. A single schema version integer is
// recorded alongside the data; opening a store performs an upgrade-in-place
// that creates missing partitions.
//
// # Backends
//
//   - File: blobs as files under a data directory. The default for the CLI
//     and single-instance deployments.
//   - Redis: key-prefixed blobs in Redis, for deployments where the
//     visualizer runs behind more than one process.
//   - Null: discards everything; disables persistence.
//
// The store is a write-behind log, not a transactional source of truth: the
// in-memory gallery stays authoritative for the running session and store
// write failures are logged, never surfaced.
package store

import "context"

// SchemaVersion is the current on-disk schema version. Bump when the
// partition layout changes; Open migrates older layouts in place.
const SchemaVersion = 1

// RoomKey is the fixed key of the singleton room slot.
const RoomKey = "current"

// Store persists room and floor blobs.
type Store interface {
	// PutRoom replaces the room slot.
	PutRoom(ctx context.Context, data []byte) error

	// Room returns the room slot, or (nil, false, nil) when empty.
	Room(ctx context.Context) ([]byte, bool, error)

	// PutFloor writes a generated artifact under the product SKU,
	// overwriting any previous artifact for that SKU.
	PutFloor(ctx context.Context, sku string, data []byte) error

	// Floor returns the artifact for a SKU, or (nil, false, nil) on miss.
	Floor(ctx context.Context, sku string) ([]byte, bool, error)

	// FloorSKUs lists every SKU present in the floors partition.
	FloorSKUs(ctx context.Context) ([]string, error)

	// ClearFloors removes every entry in the floors partition.
	ClearFloors(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
