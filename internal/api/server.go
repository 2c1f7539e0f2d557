// Package api provides the HTTP API server and handlers for vsrun.
package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"log/slog"

	"github.com/vsrunapp/vsrun-server/internal/ratelimit"
	"github.com/vsrunapp/vsrun-server/internal/service"
	"github.com/vsrunapp/vsrun-server/internal/store"
	"github.com/vsrunapp/vsrun-server/internal/validation"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Auth     *service.AuthService
	Profile  *service.ProfileService
	Shoe     *service.ShoeService
	Rotation *service.RotationService
	Activity *service.ActivityService
	Strava   *service.StravaService
	Search   *service.SearchService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	validate        *validation.Validator
	logger          *slog.Logger
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	humaConfig := huma.DefaultConfig("vsrun API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:    st,
		services: services,
		router:   router,
		api:      api,
		validate: validation.New(),
		logger:   logger,
		// Auth endpoints get 20 attempts per minute per IP.
		authRateLimiter: ratelimit.New(20.0/60.0, 10),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerPublicProfileRoutes()
	s.registerProfileRoutes()
	s.registerShoeRoutes()
	s.registerRotationRoutes()
	s.registerActivityRoutes()
	s.registerStravaRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(addr string, readTimeout, writeTimeout, idleTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	s.logger.Info("http server listening", "addr", addr)
	return srv.ListenAndServe()
}
