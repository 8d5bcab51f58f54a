package asset

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// maxAssetSize caps a single fetched asset at 32 MiB.
const maxAssetSize = 32 << 20

// HTTPSource fetches assets from a static file host.
type HTTPSource struct {
	base   string
	client *http.Client
}

// NewHTTPSource creates a source rooted at baseURL.
// A nil client falls back to http.DefaultClient.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: strings.TrimRight(baseURL, "/"), client: client}
}

// Fetch performs a single GET against base+path. Any non-2xx status is a
// failed probe: 404 maps to NOT_FOUND, everything else to STORE_READ_FAILED
// so transport trouble is distinguishable in debug logs.
func (s *HTTPSource) Fetch(ctx context.Context, assetPath string) ([]byte, error) {
	u := s.base + "/" + strings.TrimLeft(assetPath, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build asset request for %s", u)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreRead, err, "fetch %s", u)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "asset %s not found", u)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(errors.ErrCodeStoreRead, "fetch %s: status %d", u, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreRead, err, "read %s", u)
	}
	return data, nil
}

// DirSource fetches assets from a local directory tree.
type DirSource struct {
	root string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{root: dir}
}

// Fetch reads a single file under the root. Paths are cleaned and confined
// to the root directory; URL-escaped segments (the catalog escapes brand and
// collection names) are unescaped before hitting the filesystem.
func (s *DirSource) Fetch(ctx context.Context, assetPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unescaped, err := url.PathUnescape(assetPath)
	if err != nil {
		unescaped = assetPath
	}

	clean := path.Clean("/" + unescaped) // Confine to root
	full := filepath.Join(s.root, filepath.FromSlash(clean))

	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "asset %s not found", full)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreRead, err, "read %s", full)
	}
	return data, nil
}

// NewSource builds a source from a configured assets base, which may be an
// http(s) URL or a local directory path.
func NewSource(assetsBase string, client *http.Client) (Source, error) {
	if assetsBase == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "assets base is not configured")
	}
	if strings.HasPrefix(assetsBase, "http://") || strings.HasPrefix(assetsBase, "https://") {
		return NewHTTPSource(assetsBase, client), nil
	}
	info, err := os.Stat(assetsBase)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "assets base %s", assetsBase)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "assets base %s is not a directory", assetsBase)
	}
	return NewDirSource(assetsBase), nil
}

// Ensure both sources implement Source.
var (
	_ Source = (*HTTPSource)(nil)
	_ Source = (*DirSource)(nil)
)
