//	@title			PixVault Gallery API
//	@version		1.0
//	@description	Image gallery backed by an S3-compatible object store.
//
//	@host		localhost:8080
//	@BasePath	/api/v1

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/pixvault/service/internal/blobstore"
	"github.com/pixvault/service/internal/config"
	"github.com/pixvault/service/internal/gallery"
	appMiddleware "github.com/pixvault/service/internal/middleware"
	"github.com/pixvault/service/internal/response"

	_ "github.com/pixvault/service/docs/swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration load failed: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	// The configuration check runs once per process. A failure is fatal for
	// the session: the server still binds, but every gallery route serves a
	// fixed instructional message until the operator fixes the environment
	// and restarts.
	var coordinator *gallery.Coordinator
	if cfgErr := cfg.Validate(); cfgErr != nil {
		sugar.Errorw("starting unconfigured", "error", cfgErr)
		coordinator = gallery.NewUnconfigured(sugar)
	} else {
		store, err := blobstore.NewMinioStore(
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StoragePublicBase,
			cfg.StorageUseSSL,
		)
		if err != nil {
			sugar.Fatalw("object storage init failed", "error", err)
		}
		coordinator = gallery.NewCoordinator(store, sugar)
		coordinator.Start(context.Background())
	}

	galleryHandler := gallery.NewHandler(coordinator, sugar)
	unconfigured := coordinator.Snapshot().Phase == gallery.PhaseUnconfigured

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(sugar))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		if unconfigured {
			r.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
				response.ServiceUnavailable(w, config.InstructionalMessage)
			})
			return
		}

		r.Get("/gallery", galleryHandler.GetGallery)
		r.Post("/gallery/refresh", galleryHandler.RefreshGallery)
		r.Get("/images", galleryHandler.ListImages)
		r.Post("/images", galleryHandler.UploadImage)
		r.Get("/uploads/{id}", galleryHandler.UploadProgress)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infow("server listening", "port", cfg.Port, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server error", "error", err)
		}
	}()

	<-quit
	sugar.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalw("forced shutdown", "error", err)
	}

	sugar.Info("server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
