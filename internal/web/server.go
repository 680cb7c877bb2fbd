package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vbonduro/inmuebles/internal/service"
	"github.com/vbonduro/inmuebles/internal/uploadstore"
)

// diagnosticStore is what the /test endpoint reports on.
type diagnosticStore interface {
	Name() string
	CollectionNames(ctx context.Context) ([]string, error)
}

type Server struct {
	properties  *service.PropertyService
	inquiries   *service.InquiryService
	stats       *service.StatsService
	uploads     uploadstore.UploadStore
	diagnostics diagnosticStore
	router      chi.Router
	logger      *slog.Logger
}

// Options carries the dependencies of a Server. Diagnostics may be nil when no
// document store is configured.
type Options struct {
	Properties  *service.PropertyService
	Inquiries   *service.InquiryService
	Stats       *service.StatsService
	Uploads     uploadstore.UploadStore
	Diagnostics diagnosticStore
	CORSOrigins []string
	Logger      *slog.Logger
}

func NewServer(opts Options) *Server {
	s := &Server{
		properties:  opts.Properties,
		inquiries:   opts.Inquiries,
		stats:       opts.Stats,
		uploads:     opts.Uploads,
		diagnostics: opts.Diagnostics,
		router:      chi.NewRouter(),
		logger:      opts.Logger,
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(
		requestID,
		requestLogger(s.logger),
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{requestIDHeader},
			AllowCredentials: true,
		}),
		securityHeaders,
	)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/", s.handleRoot)
	r.Get("/api/hello", s.handleHello)
	r.Get("/test", s.handleDiagnostics)

	r.Post("/upload", s.handleUpload)
	r.Get("/uploads/{name}", s.handleGetUpload)

	r.Route("/properties", func(r chi.Router) {
		r.Get("/", s.handleListProperties)
		r.Post("/", s.handleCreateProperty)
		r.Get("/{id}", s.handleGetProperty)
		r.Put("/{id}", s.handleUpdateProperty)
		r.Delete("/{id}", s.handleDeleteProperty)
	})

	r.Get("/inquiries", s.handleListInquiries)
	r.Post("/inquiries", s.handleCreateInquiry)
	r.Get("/stats", s.handleStats)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
