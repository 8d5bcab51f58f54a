package visualizer

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/catalog"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// Generator produces a visualization artifact for a product composited
// into a room photo. Satisfied by genclient.Client.
type Generator interface {
	Generate(ctx context.Context, room []byte, product catalog.Product) ([]byte, error)
}

// Service orchestrates the pipeline for one user action: check the
// gallery, generate on miss, cache the result. Both CLI and API use it to
// avoid duplicating the cache-or-generate flow.
//
// The Service is stateless except for its collaborators; multiple
// goroutines can share one instance.
type Service struct {
	Gallery   *Gallery
	Generator Generator
	Catalog   *catalog.Catalog
	Logger    *log.Logger
}

// NewService creates a service. A nil logger uses the default.
func NewService(gallery *Gallery, generator Generator, cat *catalog.Catalog, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		Gallery:   gallery,
		Generator: generator,
		Catalog:   cat,
		Logger:    logger,
	}
}

// Visualize returns the artifact for a SKU, generating it on a cache miss.
// The second return value reports whether the artifact came from cache.
//
// Requires a hydrated gallery and an uploaded room photo. Concurrent calls
// for the same SKU each trigger their own generation; the gallery's
// last-writer-wins semantics pick the final cached artifact.
func (s *Service) Visualize(ctx context.Context, sku string) ([]byte, bool, error) {
	if !s.Gallery.Ready() {
		return nil, false, errors.New(errors.ErrCodeNotReady, "gallery is not hydrated yet")
	}

	product, ok := s.Catalog.Get(sku)
	if !ok {
		return nil, false, errors.New(errors.ErrCodeNotFound, "unknown product %s", sku)
	}

	if artifact, ok := s.Gallery.Get(sku); ok {
		s.Logger.Debug("gallery hit", "sku", sku)
		return artifact, true, nil
	}

	room, ok := s.Gallery.Room()
	if !ok {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "no room photo uploaded")
	}

	// Snapshot the epoch before the (slow) generation call so a room swap
	// during generation fences out the stale result.
	epoch := s.Gallery.Epoch()

	start := time.Now()
	artifact, err := s.Generator.Generate(ctx, room, product)
	if err != nil {
		return nil, false, err
	}

	if !s.Gallery.Put(ctx, sku, artifact, epoch) {
		s.Logger.Info("discarded artifact for replaced room", "sku", sku)
	}
	s.Logger.Info("visualization complete",
		"sku", sku,
		"cached", false,
		"duration", time.Since(start).Round(time.Millisecond))
	return artifact, false, nil
}
