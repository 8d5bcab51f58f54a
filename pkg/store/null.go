package store

import "context"

// NullStore is a no-op store that never persists anything.
// Useful for testing or when durable storage should be disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// PutRoom does nothing.
func (s *NullStore) PutRoom(ctx context.Context, data []byte) error { return nil }

// Room always reports an empty slot.
func (s *NullStore) Room(ctx context.Context) ([]byte, bool, error) { return nil, false, nil }

// PutFloor does nothing.
func (s *NullStore) PutFloor(ctx context.Context, sku string, data []byte) error { return nil }

// Floor always misses.
func (s *NullStore) Floor(ctx context.Context, sku string) ([]byte, bool, error) {
	return nil, false, nil
}

// FloorSKUs always returns an empty list.
func (s *NullStore) FloorSKUs(ctx context.Context) ([]string, error) { return nil, nil }

// ClearFloors does nothing.
func (s *NullStore) ClearFloors(ctx context.Context) error { return nil }

// Close does nothing.
func (s *NullStore) Close() error { return nil }

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
