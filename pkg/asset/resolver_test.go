package asset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// recordingSource records probed paths and serves a fixed path map.
type recordingSource struct {
	mu     sync.Mutex
	probes []string
	files  map[string][]byte
}

func (s *recordingSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	s.probes = append(s.probes, path)
	s.mu.Unlock()

	if data, ok := s.files[path]; ok {
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "asset %s not found", path)
}

func TestResolveProbeOrder(t *testing.T) {
	// Only the .webp variant exists; .jpg and .png must be probed (and fail)
	// before .webp succeeds, and .jpeg must never be reached.
	src := &recordingSource{files: map[string][]byte{
		"samples/Oak/Classic/SKU1.webp": []byte("webp-bytes"),
	}}
	r := NewResolver(src, nil)

	data, err := r.Resolve(context.Background(), "samples/Oak/Classic/SKU1", GenerationExtensions)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if string(data) != "webp-bytes" {
		t.Errorf("Resolve returned %q", data)
	}

	want := []string{
		"samples/Oak/Classic/SKU1.jpg",
		"samples/Oak/Classic/SKU1.png",
		"samples/Oak/Classic/SKU1.webp",
	}
	if len(src.probes) != len(want) {
		t.Fatalf("probes = %v, want %v", src.probes, want)
	}
	for i := range want {
		if src.probes[i] != want[i] {
			t.Errorf("probe[%d] = %s, want %s", i, src.probes[i], want[i])
		}
	}
}

func TestResolveExhaustion(t *testing.T) {
	src := &recordingSource{files: map[string][]byte{}}
	r := NewResolver(src, nil)

	_, err := r.Resolve(context.Background(), "samples/missing", GenerationExtensions)
	if !errors.Is(err, errors.ErrCodeAssetNotFound) {
		t.Errorf("Resolve code = %v, want ASSET_NOT_FOUND", errors.GetCode(err))
	}
	if len(src.probes) != len(GenerationExtensions) {
		t.Errorf("probed %d paths, want %d", len(src.probes), len(GenerationExtensions))
	}
}

func TestResolveLenient(t *testing.T) {
	src := &recordingSource{files: map[string][]byte{
		"logo.png": []byte("logo"),
	}}
	r := NewResolver(src, nil)

	if data, ok := r.ResolveLenient(context.Background(), "logo", ThumbnailExtensions); !ok || string(data) != "logo" {
		t.Errorf("ResolveLenient(logo) = %q, %v", data, ok)
	}
	if _, ok := r.ResolveLenient(context.Background(), "missing", ThumbnailExtensions); ok {
		t.Error("ResolveLenient(missing) = ok, want miss")
	}
}

func TestResolveContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &recordingSource{files: map[string][]byte{}}
	r := NewResolver(src, nil)

	if _, err := r.Resolve(ctx, "samples/x", GenerationExtensions); err == nil {
		t.Error("Resolve with cancelled context returned nil error")
	}
	if len(src.probes) != 0 {
		t.Errorf("probes after cancellation = %v", src.probes)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/samples/SKU9.png":
			w.Write([]byte("png-bytes"))
		case "/samples/flaky.jpg":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, req)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, srv.Client())

	data, err := src.Fetch(context.Background(), "samples/SKU9.png")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("Fetch = %q", data)
	}

	if _, err := src.Fetch(context.Background(), "samples/none.png"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing asset code = %v, want NOT_FOUND", errors.GetCode(err))
	}
	if _, err := src.Fetch(context.Background(), "samples/flaky.jpg"); !errors.Is(err, errors.ErrCodeStoreRead) {
		t.Errorf("5xx code = %v, want STORE_READ_FAILED", errors.GetCode(err))
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "samples", "Twenty Oak", "Classic")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "SKU1.jpg"), []byte("jpg-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewDirSource(dir)

	// Escaped segments are unescaped before hitting the filesystem.
	data, err := src.Fetch(context.Background(), "samples/Twenty%20Oak/Classic/SKU1.jpg")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if string(data) != "jpg-bytes" {
		t.Errorf("Fetch = %q", data)
	}

	if _, err := src.Fetch(context.Background(), "samples/nope.jpg"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file code = %v, want NOT_FOUND", errors.GetCode(err))
	}

	// Traversal stays confined to the root.
	if _, err := src.Fetch(context.Background(), "../../etc/passwd"); err == nil {
		t.Error("traversal fetch succeeded")
	}
}

func TestNewSource(t *testing.T) {
	if _, err := NewSource("", nil); err == nil {
		t.Error("empty assets base accepted")
	}
	if s, err := NewSource("https://cdn.example.com/assets", nil); err != nil {
		t.Errorf("http base rejected: %v", err)
	} else if _, ok := s.(*HTTPSource); !ok {
		t.Errorf("http base produced %T", s)
	}
	dir := t.TempDir()
	if s, err := NewSource(dir, nil); err != nil {
		t.Errorf("dir base rejected: %v", err)
	} else if _, ok := s.(*DirSource); !ok {
		t.Errorf("dir base produced %T", s)
	}
}
