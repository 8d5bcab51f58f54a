package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/aspect"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/catalog"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/errors"
)

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"ready":  s.service.Gallery.Ready(),
	})
}

// =============================================================================
// Products
// =============================================================================

// productView is the JSON shape of a catalog product.
type productView struct {
	Name       string            `json:"name"`
	SKU        string            `json:"sku"`
	Collection string            `json:"collection"`
	Brand      string            `json:"brand"`
	Price      string            `json:"price,omitempty"`
	Type       string            `json:"type,omitempty"`
	Color      string            `json:"color,omitempty"`
	Species    string            `json:"species,omitempty"`
	Attrs      map[string]string `json:"attrs,omitempty"`
	Favorite   bool              `json:"favorite"`
}

func (s *Server) productView(p catalog.Product) productView {
	v := productView{
		Name:       p.Name,
		SKU:        p.SKU,
		Collection: p.Collection,
		Brand:      p.Brand,
		Price:      p.Price,
		Type:       p.Type,
		Color:      p.Color,
		Species:    p.Species,
		Attrs:      p.Attrs,
	}
	if s.favorites != nil {
		v.Favorite = s.favorites.IsFavorite(p.SKU)
	}
	return v
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	products := s.service.Catalog.Products()

	brand := r.URL.Query().Get("brand")
	collection := r.URL.Query().Get("collection")
	search := strings.ToLower(r.URL.Query().Get("q"))

	views := make([]productView, 0, len(products))
	for _, p := range products {
		if brand != "" && p.Brand != brand {
			continue
		}
		if collection != "" && p.Collection != collection {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		views = append(views, s.productView(p))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"products": views,
		"total":    len(views),
	})
}

func (s *Server) handleProductFilters(w http.ResponseWriter, r *http.Request) {
	c := s.service.Catalog
	respondJSON(w, http.StatusOK, map[string][]string{
		"brands":      c.FilterValues(catalog.FieldBrand),
		"collections": c.FilterValues(catalog.FieldCollection),
		"types":       c.FilterValues(catalog.FieldType),
		"colors":      c.FilterValues(catalog.FieldColor),
		"species":     c.FilterValues(catalog.FieldSpecies),
	})
}

// =============================================================================
// Room
// =============================================================================

// readUpload extracts image bytes from a request: the named multipart field
// when the request is a form upload, the raw body otherwise.
func readUpload(r *http.Request, field string) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile(field)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "missing %s upload", field)
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s upload", field)
		}
		return data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

func (s *Server) handleRoomUpload(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r, "room_image")
	if err != nil {
		respondError(w, s.logger, r, err)
		return
	}
	if len(data) == 0 {
		respondError(w, s.logger, r, errors.New(errors.ErrCodeInvalidInput, "empty room photo"))
		return
	}
	if _, err := aspect.Detect(data); err != nil {
		respondError(w, s.logger, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "room photo is not a decodable image"))
		return
	}

	s.service.Gallery.SetRoom(r.Context(), data)
	respondJSON(w, http.StatusOK, map[string]any{
		"bytes": len(data),
		"epoch": s.service.Gallery.Epoch(),
	})
}

func (s *Server) handleRoomGet(w http.ResponseWriter, r *http.Request) {
	room, ok := s.service.Gallery.Room()
	if !ok {
		respondError(w, s.logger, r, errors.New(errors.ErrCodeNotFound, "no room photo uploaded"))
		return
	}
	respondImage(w, room)
}

// =============================================================================
// Visualization
// =============================================================================

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	if err := errors.ValidateSKU(sku); err != nil {
		respondError(w, s.logger, r, err)
		return
	}

	artifact, cached, err := s.service.Visualize(r.Context(), sku)
	if err != nil {
		respondError(w, s.logger, r, err)
		return
	}

	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	respondImage(w, artifact)
}

func (s *Server) handleVisualizeGet(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	if err := errors.ValidateSKU(sku); err != nil {
		respondError(w, s.logger, r, err)
		return
	}

	artifact, ok := s.service.Gallery.Get(sku)
	if !ok {
		respondError(w, s.logger, r, errors.New(errors.ErrCodeNotFound, "no cached visualization for %s", sku))
		return
	}
	w.Header().Set("X-Cache", "hit")
	respondImage(w, artifact)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.compositor == nil {
		respondError(w, s.logger, r, errors.New(errors.ErrCodeNotFound, "export is not configured"))
		return
	}
	sku := chi.URLParam(r, "sku")
	if err := errors.ValidateSKU(sku); err != nil {
		respondError(w, s.logger, r, err)
		return
	}

	product, ok := s.service.Catalog.Get(sku)
	if !ok {
		respondError(w, s.logger, r, errors.New(errors.ErrCodeNotFound, "unknown product %s", sku))
		return
	}
	artifact, ok := s.service.Gallery.Get(sku)
	if !ok {
		respondError(w, s.logger, r, errors.New(errors.ErrCodeNotFound, "no cached visualization for %s", sku))
		return
	}

	composed, err := s.compositor.Compose(r.Context(), artifact, &product)
	if err != nil {
		respondError(w, s.logger, r, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+sku+`.png"`)
	respondImage(w, composed)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Gallery.ClearAll(r.Context()); err != nil {
		respondError(w, s.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Convert
// =============================================================================

// convertQuality is the JPEG quality for converted uploads.
const convertQuality = 85

// handleConvert re-encodes an uploaded image as JPEG. HEIC photos from
// phones are out of scope; this covers PNG and WebP room photos that the
// generation backend rejects.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r, "image")
	if err != nil {
		respondError(w, s.logger, r, err)
		return
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		respondError(w, s.logger, r, errors.Wrap(errors.ErrCodeDecodeFailure, err, "decode uploaded image"))
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(convertQuality)); err != nil {
		respondError(w, s.logger, r, errors.Wrap(errors.ErrCodeInternal, err, "encode JPEG"))
		return
	}
	respondImage(w, buf.Bytes())
}

// =============================================================================
// Favorites
// =============================================================================

func (s *Server) handleFavoritesList(w http.ResponseWriter, r *http.Request) {
	if s.favorites == nil {
		respondError(w, s.logger, r, errors.New(errors.ErrCodeNotFound, "favorites are not configured"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"favorites": s.favorites.Favorites()})
}

func (s *Server) handleFavoriteGet(w http.ResponseWriter, r *http.Request) {
	if s.favorites == nil {
		respondError(w, s.logger, r, errors.New(errors.ErrCodeNotFound, "favorites are not configured"))
		return
	}
	sku := chi.URLParam(r, "sku")
	respondJSON(w, http.StatusOK, map[string]any{
		"sku":      sku,
		"favorite": s.favorites.IsFavorite(sku),
	})
}

func (s *Server) handleFavoriteToggle(w http.ResponseWriter, r *http.Request) {
	if s.favorites == nil {
		respondError(w, s.logger, r, errors.New(errors.ErrCodeNotFound, "favorites are not configured"))
		return
	}
	sku := chi.URLParam(r, "sku")
	if _, ok := s.service.Catalog.Get(sku); !ok {
		respondError(w, s.logger, r, errors.New(errors.ErrCodeNotFound, "unknown product %s", sku))
		return
	}

	favorited, err := s.favorites.Toggle(sku)
	if err != nil {
		respondError(w, s.logger, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"sku":      sku,
		"favorite": favorited,
	})
}
