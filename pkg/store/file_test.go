package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

func TestFileStoreRoomSlot(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Empty slot is a miss, not an error.
	if _, ok, err := s.Room(ctx); err != nil || ok {
		t.Fatalf("empty room slot: ok=%v err=%v", ok, err)
	}

	if err := s.PutRoom(ctx, []byte("room-1")); err != nil {
		t.Fatal(err)
	}
	data, ok, err := s.Room(ctx)
	if err != nil || !ok {
		t.Fatalf("room read: ok=%v err=%v", ok, err)
	}
	if string(data) != "room-1" {
		t.Errorf("room = %q", data)
	}

	// The slot is a singleton; a second put replaces it.
	if err := s.PutRoom(ctx, []byte("room-2")); err != nil {
		t.Fatal(err)
	}
	data, _, _ = s.Room(ctx)
	if string(data) != "room-2" {
		t.Errorf("room after replace = %q", data)
	}
}

func TestFileStoreFloors(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.PutFloor(ctx, "SKU1", []byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := s.PutFloor(ctx, "SKU2", []byte("b")); err != nil {
		t.Fatal(err)
	}
	// Overwrite, never append.
	if err := s.PutFloor(ctx, "SKU1", []byte("a2")); err != nil {
		t.Fatal(err)
	}

	data, ok, err := s.Floor(ctx, "SKU1")
	if err != nil || !ok {
		t.Fatalf("floor read: ok=%v err=%v", ok, err)
	}
	if string(data) != "a2" {
		t.Errorf("floor SKU1 = %q, want overwritten value", data)
	}

	skus, err := s.FloorSKUs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(skus)
	if len(skus) != 2 || skus[0] != "SKU1" || skus[1] != "SKU2" {
		t.Errorf("FloorSKUs = %v", skus)
	}

	if err := s.ClearFloors(ctx); err != nil {
		t.Fatal(err)
	}
	if skus, _ := s.FloorSKUs(ctx); len(skus) != 0 {
		t.Errorf("FloorSKUs after clear = %v", skus)
	}
	if _, ok, _ := s.Floor(ctx, "SKU1"); ok {
		t.Error("floor SKU1 still present after clear")
	}

	// Clearing floors must not touch the room slot.
	if err := s.PutRoom(ctx, []byte("room")); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearFloors(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Room(ctx); !ok {
		t.Error("room slot lost by ClearFloors")
	}
}

func TestFileStoreRejectsUnsafeSKU(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.PutFloor(ctx, "../escape", []byte("x")); !errors.Is(err, errors.ErrCodeInvalidSKU) {
		t.Errorf("PutFloor traversal code = %v, want INVALID_SKU", errors.GetCode(err))
	}
	if _, _, err := s.Floor(ctx, "a/b"); !errors.Is(err, errors.ErrCodeInvalidSKU) {
		t.Errorf("Floor traversal code = %v, want INVALID_SKU", errors.GetCode(err))
	}
}

func TestFileStoreSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewFileStore(dir); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "version"))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "1" {
		t.Errorf("version file = %q, want \"1\"", raw)
	}

	// Reopening an existing store succeeds (upgrade-in-place is a no-op).
	if _, err := NewFileStore(dir); err != nil {
		t.Errorf("reopen failed: %v", err)
	}

	// A future schema version is rejected.
	if err := os.WriteFile(filepath.Join(dir, "version"), []byte("99"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(dir); err == nil {
		t.Error("future schema version accepted")
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutRoom(ctx, []byte("room")); err != nil {
		t.Fatal(err)
	}
	if err := s.PutFloor(ctx, "SKU1", []byte("floor")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if data, ok, _ := reopened.Room(ctx); !ok || string(data) != "room" {
		t.Errorf("room after reopen: %q, ok=%v", data, ok)
	}
	if data, ok, _ := reopened.Floor(ctx, "SKU1"); !ok || string(data) != "floor" {
		t.Errorf("floor after reopen: %q, ok=%v", data, ok)
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	defer s.Close()

	if err := s.PutFloor(ctx, "SKU1", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Floor(ctx, "SKU1"); ok {
		t.Error("NullStore should not store data")
	}
	if skus, err := s.FloorSKUs(ctx); err != nil || len(skus) != 0 {
		t.Errorf("FloorSKUs = %v, %v", skus, err)
	}
}
