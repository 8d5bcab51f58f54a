package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/asset"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/catalog"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/export"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/prefs"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/visualizer"
)

const testCSV = `ProductName,SKUNumber,Collection,BRAND,ProductType
Heritage Oak,SKU1,Classic,Twenty Oak,Hardwood
Urban Ash,SKU2,Metro,Beauflor,Vinyl
`

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 220, B: 220, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// stubGenerator returns a fixed PNG for every product.
type stubGenerator struct {
	artifact []byte
	fail     error
	calls    int
}

func (g *stubGenerator) Generate(ctx context.Context, room []byte, product catalog.Product) ([]byte, error) {
	g.calls++
	if g.fail != nil {
		return nil, g.fail
	}
	return g.artifact, nil
}

// emptySource has no assets; the compositor degrades to placeholders.
type emptySource struct{}

func (emptySource) Fetch(ctx context.Context, path string) ([]byte, error) {
	return nil, errors.New(errors.ErrCodeNotFound, "no asset at %s", path)
}

func newTestServer(t *testing.T, gen visualizer.Generator) *Server {
	t.Helper()
	cat, err := catalog.Parse(strings.NewReader(testCSV))
	if err != nil {
		t.Fatal(err)
	}
	gallery := visualizer.NewGallery(nil, nil)
	if err := gallery.Hydrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	service := visualizer.NewService(gallery, gen, cat, nil)

	compositor := export.NewCompositor(asset.NewResolver(emptySource{}, nil), "branding/logo", nil)
	favorites, err := prefs.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(service, compositor, favorites, nil)
}

func uploadRoom(t *testing.T, s *Server) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/room", bytes.NewReader(pngBytes(t, 640, 360)))
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("room upload status = %d: %s", rec.Code, rec.Body)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
		Ready  bool   `json:"ready"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || !body.Ready {
		t.Errorf("body = %+v", body)
	}
}

func TestProductsListAndFilter(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	var body struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Total != 2 {
		t.Errorf("total = %d, want 2", body.Total)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?brand=Beauflor", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Total != 1 {
		t.Errorf("filtered total = %d, want 1", body.Total)
	}
}

func TestProductFilters(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/filters", nil))

	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if got := body["brands"]; len(got) != 2 {
		t.Errorf("brands = %v", got)
	}
	if got := body["types"]; len(got) != 2 {
		t.Errorf("types = %v", got)
	}
}

func TestRoomUploadMultipart(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("room_image", "room.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(pngBytes(t, 640, 360)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/room", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/room", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("room get status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
}

func TestRoomUploadRejectsGarbage(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	req := httptest.NewRequest(http.MethodPost, "/api/room", strings.NewReader("not an image"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRoomGetWithoutUpload(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/room", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestVisualizeFlow(t *testing.T) {
	gen := &stubGenerator{artifact: pngBytes(t, 640, 360)}
	s := newTestServer(t, gen)
	uploadRoom(t, s)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/visualize/SKU1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if rec.Header().Get("X-Cache") != "miss" {
		t.Errorf("X-Cache = %q, want miss", rec.Header().Get("X-Cache"))
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/visualize/SKU1", nil))
	if rec.Header().Get("X-Cache") != "hit" {
		t.Errorf("X-Cache = %q, want hit", rec.Header().Get("X-Cache"))
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
}

func TestVisualizeGetCachedOnly(t *testing.T) {
	gen := &stubGenerator{artifact: pngBytes(t, 640, 360)}
	s := newTestServer(t, gen)
	uploadRoom(t, s)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/visualize/SKU1", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 before generation", rec.Code)
	}
	if gen.calls != 0 {
		t.Errorf("GET must not trigger generation, calls = %d", gen.calls)
	}
}

func TestVisualizeUnknownSKU(t *testing.T) {
	s := newTestServer(t, &stubGenerator{artifact: pngBytes(t, 64, 64)})
	uploadRoom(t, s)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/visualize/NOPE", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Code != errors.ErrCodeNotFound {
		t.Errorf("code = %q", body.Code)
	}
}

func TestVisualizeWithoutRoom(t *testing.T) {
	s := newTestServer(t, &stubGenerator{artifact: pngBytes(t, 64, 64)})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/visualize/SKU1", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestVisualizeGenerationFailure(t *testing.T) {
	gen := &stubGenerator{fail: errors.New(errors.ErrCodeGenerationFailed, "backend down")}
	s := newTestServer(t, gen)
	uploadRoom(t, s)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/visualize/SKU1", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestExport(t *testing.T) {
	gen := &stubGenerator{artifact: pngBytes(t, 640, 360)}
	s := newTestServer(t, gen)
	uploadRoom(t, s)

	// Export requires a cached artifact.
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/visualize/SKU1/export", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("export before generation status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/visualize/SKU1", nil))
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/visualize/SKU1/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", rec.Code, rec.Body)
	}
	if _, err := png.Decode(bytes.NewReader(rec.Body.Bytes())); err != nil {
		t.Errorf("export body is not valid PNG: %v", err)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "SKU1.png") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestClearVisualizations(t *testing.T) {
	gen := &stubGenerator{artifact: pngBytes(t, 64, 64)}
	s := newTestServer(t, gen)
	uploadRoom(t, s)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/visualize/SKU1", nil))
	if rec.Code != http.StatusOK {
		t.Fatal(rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/visualizations", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/visualize/SKU1", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after clear = %d, want 404", rec.Code)
	}
}

func TestConvert(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/api/convert", bytes.NewReader(pngBytes(t, 100, 80)))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", ct)
	}
}

func TestConvertRejectsGarbage(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	req := httptest.NewRequest(http.MethodPost, "/api/convert", strings.NewReader("nope"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestFavorites(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/favorites/SKU1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d: %s", rec.Code, rec.Body)
	}
	var body struct {
		Favorite bool `json:"favorite"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Favorite {
		t.Error("toggle did not favorite")
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/favorites", nil))
	var list struct {
		Favorites []string `json:"favorites"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Favorites) != 1 || list.Favorites[0] != "SKU1" {
		t.Errorf("favorites = %v", list.Favorites)
	}

	// Unknown SKUs cannot be favorited.
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/favorites/NOPE", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown toggle status = %d, want 404", rec.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, &stubGenerator{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}
