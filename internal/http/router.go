package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hackclub/cutout/internal/config"
	"github.com/hackclub/cutout/internal/imageproc"
	"github.com/hackclub/cutout/internal/images"
	"github.com/hackclub/cutout/internal/metrics"
	"github.com/hackclub/cutout/internal/removebg"
	"github.com/hackclub/cutout/internal/response"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	config         *config.Config
	logger         zerolog.Logger
	db             Pinger
	mirrorer       imageproc.Mirrorer
	imageHandler   *images.Handler
	removeHandler  *removebg.Handler
	localFilesRoot string
}

func NewServer(
	cfg *config.Config,
	logger zerolog.Logger,
	db Pinger,
	mirrorer imageproc.Mirrorer,
	imageHandler *images.Handler,
	removeHandler *removebg.Handler,
) *Server {
	return &Server{
		config:        cfg,
		logger:        logger,
		db:            db,
		mirrorer:      mirrorer,
		imageHandler:  imageHandler,
		removeHandler: removeHandler,
	}
}

// ServeLocalFiles exposes dir under /files. Only used with the local storage driver.
func (s *Server) ServeLocalFiles(dir string) {
	s.localFilesRoot = dir
}

// Routes builds the handler tree. Background work started for it, such as
// the rate limiter's sweeper, runs until ctx is done.
func (s *Server) Routes(ctx context.Context) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.Timeout(s.requestTimeout()))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Warning"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.HealthCheck)
	r.Get("/api/config", s.HandleConfig)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/upload", s.imageHandler.HandleUpload)
	r.Delete("/delete/{id}", s.imageHandler.HandleDelete)

	r.Get("/removebg", s.removeHandler.HandleInfo)
	r.With(RateLimit(ctx, s.config.RemoveBGRateLimitRPS, s.config.RemoveBGRateLimitBurst, s.logger)).
		Post("/removebg", s.removeHandler.HandleRemove)

	if s.localFilesRoot != "" {
		r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(s.localFilesRoot))))
	}

	return r
}

// The removal call alone may take up to RemoveBGTimeout, so leave headroom on top of it.
func (s *Server) requestTimeout() time.Duration {
	timeout := 60 * time.Second
	if t := s.config.RemoveBGTimeout + 30*time.Second; t > timeout {
		timeout = t
	}
	return timeout
}

// Middleware

func (s *Server) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("ip", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Msg("request")
	})
}

// Handlers

func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("database ping failed")
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	s.write(response.JSON(w, code, map[string]string{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}))
}

func (s *Server) HandleConfig(w http.ResponseWriter, r *http.Request) {
	s.write(response.JSON(w, http.StatusOK, map[string]interface{}{
		"storagePublicBaseUrl": s.config.StoragePublicBaseURL,
		"flipAvailable":        s.mirrorer.Available(),
		"maxRemoveBytes":       s.config.RemoveBGMaxBytes,
	}))
}

func (s *Server) write(err error) {
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}
