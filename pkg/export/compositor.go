package export

import (
	"bytes"
	"context"
	"image"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/asset"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/catalog"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// Compositor builds export images: the generated artifact with the brand
// mark and, when a product is supplied, the info card overlaid.
//
// Compose is deterministic given identical inputs and identical
// auxiliary-asset availability. Auxiliary assets (brand mark, product
// thumbnail) are decorative: a failure to resolve or decode one degrades
// to omission or a placeholder. Only an undecodable base artifact fails
// the composite.
type Compositor struct {
	resolver *asset.Resolver
	logoBase string // extension-less path of the brand mark
	logger   *log.Logger
}

// NewCompositor creates a compositor. logoBase is the extension-less asset
// path of the brand mark, resolved leniently per composite.
func NewCompositor(resolver *asset.Resolver, logoBase string, logger *log.Logger) *Compositor {
	if logger == nil {
		logger = log.Default()
	}
	return &Compositor{resolver: resolver, logoBase: logoBase, logger: logger}
}

// Compose renders the export image for an artifact. product may be nil, in
// which case only the brand mark is drawn. The result is PNG-encoded.
func (c *Compositor) Compose(ctx context.Context, artifact []byte, product *catalog.Product) ([]byte, error) {
	base, err := imaging.Decode(bytes.NewReader(artifact))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailure, err, "decode base artifact")
	}

	logo := c.loadAuxiliary(ctx, c.logoBase, asset.ThumbnailExtensions, "brand mark")

	var thumbnail image.Image
	var card *Card
	if product != nil {
		thumbnail = c.loadAuxiliary(ctx, product.SampleBasePath, asset.ThumbnailExtensions, "thumbnail")
		card = &Card{
			Brand:        product.Brand,
			SKU:          product.SKU,
			Name:         product.Name,
			Collection:   product.Collection,
			HasThumbnail: thumbnail != nil,
		}
	}

	renderer, err := NewRenderer(logo, thumbnail)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load export fonts")
	}

	logoAspect := 0.0
	if logo != nil {
		b := logo.Bounds()
		if b.Dx() > 0 {
			logoAspect = float64(b.Dy()) / float64(b.Dx())
		}
	}

	bounds := base.Bounds()
	ops := Compute(bounds.Dx(), bounds.Dy(), logoAspect, card, renderer)
	composed := renderer.Render(base, ops)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, composed, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode export image")
	}
	return buf.Bytes(), nil
}

// loadAuxiliary resolves and decodes a decorative asset leniently.
// Any failure returns nil and is logged at debug level.
func (c *Compositor) loadAuxiliary(ctx context.Context, basePath string, exts []string, kind string) image.Image {
	if basePath == "" {
		return nil
	}
	data, ok := c.resolver.ResolveLenient(ctx, basePath, exts)
	if !ok {
		c.logger.Debug("auxiliary asset unresolved", "kind", kind, "path", basePath)
		return nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		c.logger.Debug("auxiliary asset undecodable", "kind", kind, "path", basePath, "err", err)
		return nil
	}
	return img
}
