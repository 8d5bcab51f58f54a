// Package asset resolves product reference images across candidate file
// extensions.
//
// The product catalog stores extension-less base paths; the actual sample
// files on disk (or behind the static file host) carry whatever extension
// the supplier shipped. The resolver probes an ordered list of candidate
// extensions against a [Source] and returns the first artifact that loads.
//
// Two failure policies exist:
//   - Resolve (strict): exhausting every candidate returns ASSET_NOT_FOUND.
//     Used for generation input, where the floor sample is mandatory.
//   - ResolveLenient: exhaustion returns (nil, false). Used for thumbnails
//     and export-card decorations, where a placeholder is acceptable.
//
// Each probe is a single fallible operation with no side effect on failure;
// candidates are tried strictly in priority order.
package asset

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// Extension candidate orders. The generation path and the export thumbnail
// path historically probe in different orders; both are preserved.
var (
	// GenerationExtensions is the probe order for generation input samples.
	GenerationExtensions = []string{".jpg", ".png", ".webp", ".jpeg"}

	// ThumbnailExtensions is the probe order for export-card thumbnails.
	ThumbnailExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}
)

// Source loads a raw asset by path. Implementations return NOT_FOUND for
// missing assets and other codes for transport failures; the resolver
// treats both as a failed probe.
type Source interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Resolver probes candidate extensions against a Source.
type Resolver struct {
	source Source
	logger *log.Logger
}

// NewResolver creates a resolver over the given source.
// A nil logger falls back to the default logger.
func NewResolver(source Source, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{source: source, logger: logger}
}

// Resolve probes basePath+ext for each candidate extension in order and
// returns the first artifact that loads. When every candidate is exhausted
// it returns ASSET_NOT_FOUND; generation cannot proceed without the sample,
// so strict callers propagate this to the user.
func (r *Resolver) Resolve(ctx context.Context, basePath string, extensions []string) ([]byte, error) {
	for _, ext := range extensions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := r.source.Fetch(ctx, basePath+ext)
		if err != nil {
			r.logger.Debug("asset probe failed", "path", basePath+ext, "err", err)
			continue
		}
		r.logger.Debug("asset resolved", "path", basePath+ext, "bytes", len(data))
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeAssetNotFound,
		"no asset found for %s (tried %d extensions)", basePath, len(extensions))
}

// ResolveLenient is Resolve with the lenient failure policy: exhaustion is
// reported as (nil, false) so callers can substitute a placeholder.
// Context cancellation still aborts the probe loop.
func (r *Resolver) ResolveLenient(ctx context.Context, basePath string, extensions []string) ([]byte, bool) {
	data, err := r.Resolve(ctx, basePath, extensions)
	if err != nil {
		return nil, false
	}
	return data, true
}
