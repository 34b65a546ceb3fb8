package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dipansrimany2006/mlink-client/internal/config"
	"github.com/dipansrimany2006/mlink-client/internal/handler"
	"github.com/dipansrimany2006/mlink-client/internal/handler/admin"
	"github.com/dipansrimany2006/mlink-client/internal/middleware"
	"github.com/dipansrimany2006/mlink-client/internal/service"
	"github.com/dipansrimany2006/mlink-client/internal/store"
	"github.com/dipansrimany2006/mlink-client/internal/validator"
)

// validatePath is the public validation endpoint consumed by third-party
// renderers from arbitrary origins.
const validatePath = "/v1/registry/validate"

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.With().Str("service", "mlink-registry").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	pg := store.NewPostgres(pool)

	keySvc := service.NewAPIKeyService(pg)
	registrySvc := service.NewRegistryService(pg, validator.New(cfg.RequireHTTPS()))
	moderationSvc := service.NewModerationService(pg, cfg.AdminAddresses)

	authLimiter := middleware.NewAuthAttemptLimiter(5, 5*time.Minute, 15*time.Minute)

	router := buildRouter(cfg, pg, keySvc, registrySvc, moderationSvc, authLimiter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Str("environment", cfg.Environment).Msg("starting mlink registry server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildRouter(
	cfg *config.Config,
	st store.MLinkStore,
	keySvc *service.APIKeyService,
	registrySvc *service.RegistryService,
	moderationSvc *service.ModerationService,
	authLimiter *middleware.AuthAttemptLimiter,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireJSON)

	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	siteCORS := cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.APIKeyHeader, admin.AdminAddressHeader},
		MaxAge:         300,
	})
	validateCORS := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	// The validate endpoint is called cross-origin by third-party renderers
	// and must stay allow-all even when CORS_ORIGINS restricts the rest of
	// the API. CORS middleware terminates preflight requests, so the two
	// policies must not nest: dispatch on the path before either runs.
	r.Use(func(next http.Handler) http.Handler {
		open := validateCORS(next)
		site := siteCORS(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path == validatePath {
				open.ServeHTTP(w, req)
				return
			}
			site.ServeHTTP(w, req)
		})
	})

	r.Method(http.MethodGet, "/health", handler.NewHealthHandler(st, cfg.Environment))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/keys", func(r chi.Router) {
			r.Method(http.MethodGet, "/", handler.NewListKeysHandler(keySvc))
			r.Method(http.MethodPost, "/", handler.NewCreateKeyHandler(keySvc))
			r.Method(http.MethodDelete, "/{id}", handler.NewDeleteKeyHandler(keySvc))
			r.Method(http.MethodPatch, "/{id}", handler.NewToggleKeyHandler(keySvc))
		})

		r.Route("/registry", func(r chi.Router) {
			// Public reads.
			r.Method(http.MethodGet, "/list", handler.NewListMLinksHandler(registrySvc))
			r.Method(http.MethodGet, "/my-mlinks", handler.NewMyMLinksHandler(registrySvc))
			r.Method(http.MethodGet, "/validate", handler.NewValidateHandler(registrySvc))

			// Bearer-token writes.
			r.Group(func(r chi.Router) {
				r.Use(middleware.APIKeyAuth(keySvc, authLimiter))
				r.Method(http.MethodPost, "/register", handler.NewRegisterHandler(registrySvc))
				r.Method(http.MethodPut, "/{id}", handler.NewUpdateMLinkHandler(registrySvc))
				r.Method(http.MethodDelete, "/{id}", handler.NewDeleteMLinkHandler(registrySvc))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Method(http.MethodGet, "/check", admin.NewCheckHandler(moderationSvc))
			r.Method(http.MethodGet, "/mlinks", admin.NewListMLinksHandler(moderationSvc))
			r.Method(http.MethodGet, "/mlinks/{id}", admin.NewGetMLinkHandler(moderationSvc))
			r.Method(http.MethodPut, "/mlinks/{id}/status", admin.NewSetStatusHandler(moderationSvc))
		})
	})

	return r
}
