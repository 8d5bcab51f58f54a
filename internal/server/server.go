// Package server exposes the visualization pipeline over an HTTP API.
//
// Routes are mounted on a chi router. Handlers translate between HTTP and
// the pipeline packages; every failure surfaces as a JSON body carrying the
// structured error code, with the code-to-status mapping in respond.go.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/export"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/prefs"
	"github.com/camphagood-web/Room-Visualizer-Hosted/pkg/visualizer"
)

// maxUploadBytes caps room photo and convert uploads.
const maxUploadBytes = 32 << 20

// Server is the HTTP API over the visualization pipeline.
type Server struct {
	service    *visualizer.Service
	compositor *export.Compositor
	favorites  *prefs.FileStore
	logger     *log.Logger
	router     chi.Router
}

// New creates the server and mounts all routes. The compositor and
// favorites store are optional; their routes return NOT_FOUND when absent.
func New(service *visualizer.Service, compositor *export.Compositor, favorites *prefs.FileStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		service:    service,
		compositor: compositor,
		favorites:  favorites,
		logger:     logger,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.handleProducts)
		r.Get("/products/filters", s.handleProductFilters)

		r.Post("/room", s.handleRoomUpload)
		r.Get("/room", s.handleRoomGet)

		r.Post("/visualize/{sku}", s.handleVisualize)
		r.Get("/visualize/{sku}", s.handleVisualizeGet)
		r.Get("/visualize/{sku}/export", s.handleExport)
		r.Delete("/visualizations", s.handleClear)

		r.Post("/convert", s.handleConvert)

		r.Get("/favorites", s.handleFavoritesList)
		r.Get("/favorites/{sku}", s.handleFavoriteGet)
		r.Post("/favorites/{sku}", s.handleFavoriteToggle)
	})

	return r
}

// requestLogger logs each request with latency and status, tagged with a
// request ID that is also echoed back to the client.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", requestID)
	})
}
