// Package visualizer owns the visualization artifact pipeline: the gallery
// of generated artifacts (in-memory cache plus durable write-behind store)
// and the service that orchestrates cache lookups and generation calls.
//
// # Cache coherency
//
// The gallery guarantees:
//   - at most one artifact per product SKU; a regeneration overwrites
//   - replacing the room wipes every artifact, in memory synchronously and
//     in the durable store best-effort
//   - the durable store converges with memory: Hydrate loads every
//     persisted artifact before the gallery reports ready
//
// Concurrent regenerations of the same SKU are not deduplicated; the last
// completing call wins. To keep a slow generation from resurrecting
// artifacts for a room that has since been replaced, every room swap bumps
// a monotonic epoch and Put rejects writes tagged with an older epoch.
package visualizer

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/store"
)

// hydrateConcurrency bounds parallel floor loads during Hydrate.
const hydrateConcurrency = 8

// Gallery is the artifact cache: a fast in-memory map of generated
// artifacts keyed by SKU, backed by a durable store treated as a
// write-behind log. The in-memory layer is authoritative for the session.
type Gallery struct {
	mu     sync.RWMutex
	mem    *gocache.Cache
	store  store.Store
	logger *log.Logger

	room  []byte
	epoch uint64
	ready bool
}

// NewGallery creates a gallery over the given durable store.
// A nil store disables persistence; a nil logger uses the default.
func NewGallery(st store.Store, logger *log.Logger) *Gallery {
	if st == nil {
		st = store.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Gallery{
		mem:    gocache.New(gocache.NoExpiration, 0),
		store:  st,
		logger: logger,
	}
}

// Hydrate loads the persisted room and every persisted floor artifact into
// memory. It must complete before Get and Put are trusted; a failure leaves
// the gallery not ready and is returned to the caller.
func (g *Gallery) Hydrate(ctx context.Context) error {
	room, hasRoom, err := g.store.Room(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreRead, err, "hydrate room slot")
	}

	skus, err := g.store.FloorSKUs(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreRead, err, "hydrate floors partition")
	}

	type floor struct {
		sku  string
		data []byte
	}
	floors := make([]floor, len(skus))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(hydrateConcurrency)
	for i, sku := range skus {
		i, sku := i, sku
		eg.Go(func() error {
			data, ok, err := g.store.Floor(egCtx, sku)
			if err != nil {
				return err
			}
			if ok {
				floors[i] = floor{sku: sku, data: data}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreRead, err, "hydrate floor artifacts")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if hasRoom {
		g.room = room
	}
	loaded := 0
	for _, f := range floors {
		if f.sku == "" {
			continue
		}
		g.mem.Set(f.sku, f.data, gocache.NoExpiration)
		loaded++
	}
	g.ready = true

	g.logger.Info("gallery hydrated", "room", hasRoom, "floors", loaded)
	return nil
}

// Ready reports whether Hydrate has completed.
func (g *Gallery) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ready
}

// Epoch returns the current room epoch. Callers snapshot it before starting
// a generation and pass it back to Put.
func (g *Gallery) Epoch() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.epoch
}

// Get returns the cached artifact for a SKU. Memory only, no I/O.
func (g *Gallery) Get(sku string) ([]byte, bool) {
	v, ok := g.mem.Get(sku)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// Put stores a generated artifact under a SKU, overwriting any previous
// one, and persists it best-effort. The write is rejected (returning false)
// when epoch predates the current room epoch: the artifact belongs to a
// room that has already been replaced.
//
// A durable write failure is logged, never surfaced - the in-memory entry
// stands and the session continues.
func (g *Gallery) Put(ctx context.Context, sku string, artifact []byte, epoch uint64) bool {
	g.mu.Lock()
	if epoch != g.epoch {
		g.mu.Unlock()
		g.logger.Warn("rejected stale artifact write", "sku", sku, "epoch", epoch, "current", g.epoch)
		return false
	}
	g.mem.Set(sku, artifact, gocache.NoExpiration)
	g.mu.Unlock()

	if err := g.store.PutFloor(ctx, sku, artifact); err != nil {
		g.logger.Warn("durable floor write failed", "sku", sku, "err", err)
	}
	return true
}

// Room returns the current room photo.
func (g *Gallery) Room() ([]byte, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.room == nil {
		return nil, false
	}
	return g.room, true
}

// SetRoom replaces the room photo. The swap and the in-memory artifact wipe
// complete before SetRoom returns, so any Get issued afterwards is
// guaranteed to miss; the epoch bump fences out in-flight generations that
// started under the old room. Durable writes (persist the new room, clear
// the floors partition) are best-effort and logged on failure.
func (g *Gallery) SetRoom(ctx context.Context, photo []byte) {
	g.mu.Lock()
	g.room = photo
	g.epoch++
	g.mem.Flush()
	g.mu.Unlock()

	if err := g.store.PutRoom(ctx, photo); err != nil {
		g.logger.Warn("durable room write failed", "err", err)
	}
	if err := g.store.ClearFloors(ctx); err != nil {
		g.logger.Warn("durable floors clear failed", "err", err)
	}
}

// ClearAll wipes every generated artifact, memory and durable store, but
// leaves the room photo untouched. Triggered explicitly by the user.
func (g *Gallery) ClearAll(ctx context.Context) error {
	g.mu.Lock()
	g.mem.Flush()
	g.mu.Unlock()

	if err := g.store.ClearFloors(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "clear floors partition")
	}
	return nil
}

// SKUs returns every SKU with a cached artifact.
func (g *Gallery) SKUs() []string {
	items := g.mem.Items()
	skus := make([]string, 0, len(items))
	for sku := range items {
		skus = append(skus, sku)
	}
	return skus
}

// Len returns the number of cached artifacts.
func (g *Gallery) Len() int {
	return g.mem.ItemCount()
}
