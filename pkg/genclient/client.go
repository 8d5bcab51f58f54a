// Package genclient dispatches floor generation requests to the remote
// image generator.
//
// The generator is an opaque HTTP collaborator: one multipart POST to
// {baseURL}/generate-floor carrying the room photo, the resolved floor
// sample, and the negotiated aspect ratio label. Any 2xx response body is
// the generated artifact; anything else is a hard GENERATION_FAILED with
// the response body kept as diagnostic text.
//
// The client is stateless - caching generated artifacts is the gallery's
// job - so it can be tested against a stub transport. No automatic retry is
// performed: a failed generation is surfaced to the user, who re-triggers.
package genclient

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/aspect"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/asset"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/catalog"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// generatePath is the fixed endpoint path on the generator service.
const generatePath = "/generate-floor"

// Multipart part names expected by the generator.
const (
	partRoomImage   = "room_image"
	partFloorSample = "floor_sample"
	partAspectRatio = "aspect_ratio"
)

// maxResponseSize caps a generated artifact at 64 MiB.
const maxResponseSize = 64 << 20

// Client talks to the remote generator.
type Client struct {
	baseURL  string
	http     *http.Client
	resolver *asset.Resolver
	limiter  *rate.Limiter
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for generation calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithRateLimit bounds outbound generation calls. The remote generator
// meters by request; r is requests per second, burst the allowed spike.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(cl *Client) { cl.limiter = rate.NewLimiter(r, burst) }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// New creates a generation client. resolver is used to fetch the product's
// reference sample (strict mode) before dispatch.
func New(baseURL string, resolver *asset.Resolver, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     http.DefaultClient,
		resolver: resolver,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate produces a visualization artifact for product composited into
// the given room photo.
//
// Steps, in order:
//  1. Negotiate the aspect ratio from the room photo's dimensions. A decode
//     failure degrades to the default descriptor; it never aborts.
//  2. Resolve the product's reference sample (strict): ASSET_NOT_FOUND
//     propagates, since generation cannot proceed without the sample.
//  3. Dispatch one atomic multipart request and return the response body.
func (c *Client) Generate(ctx context.Context, room []byte, product catalog.Product) ([]byte, error) {
	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID, "sku", product.SKU)

	ratio, err := aspect.Detect(room)
	if err != nil {
		logger.Warn("aspect detection failed, using default", "default", aspect.Default.Label, "err", err)
		ratio = aspect.Default
	} else {
		logger.Debug("negotiated aspect ratio", "ratio", ratio.Label, "orientation", ratio.Orientation)
	}

	sample, err := c.resolver.Resolve(ctx, product.SampleBasePath, asset.GenerationExtensions)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	artifact, err := c.dispatch(ctx, requestID, room, sample, ratio.Label)
	if err != nil {
		return nil, err
	}

	logger.Info("generated artifact",
		"ratio", ratio.Label,
		"bytes", len(artifact),
		"duration", time.Since(start).Round(time.Millisecond))
	return artifact, nil
}

// dispatch performs the single multipart POST.
func (c *Client) dispatch(ctx context.Context, requestID string, room, sample []byte, ratioLabel string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	roomPart, err := mw.CreateFormFile(partRoomImage, "room.png")
	if err == nil {
		_, err = roomPart.Write(room)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "assemble room part")
	}

	samplePart, err := mw.CreateFormFile(partFloorSample, "floor.png")
	if err == nil {
		_, err = samplePart.Write(sample)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "assemble floor sample part")
	}

	if err := mw.WriteField(partAspectRatio, ratioLabel); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "assemble aspect ratio part")
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, &body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build generation request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGenerationFailed,
			&errors.GenerationError{Body: err.Error()}, "call generator")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
		return nil, errors.Wrap(errors.ErrCodeGenerationFailed,
			&errors.GenerationError{Status: resp.StatusCode, Body: string(diag)},
			"generator rejected request")
	}

	artifact, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGenerationFailed, err, "read generated artifact")
	}
	return artifact, nil
}
