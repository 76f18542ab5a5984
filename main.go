package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-chi/chi/v5"

	"mediagate/internal/auth"
	"mediagate/internal/config"
	"mediagate/internal/middleware"
	"mediagate/internal/preview"
	"mediagate/internal/s3"
	"mediagate/internal/upload"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg := config.Load()
	ctx := context.Background()

	policies, err := config.LoadPolicyConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load upload policy")
	}

	s3Client, err := s3.NewClient(ctx, cfg.S3Region, cfg.S3Bucket, cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.S3Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create S3 client")
	}

	uploadHandler := upload.NewHandler(upload.NewService(s3Client, cfg, policies))
	previewHandler := preview.NewHandler(preview.NewService(s3Client))

	limiter := middleware.NewRateLimiter(10, 30)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	r.Route("/v1/uploads", func(r chi.Router) {
		r.Use(auth.APIKeyMiddleware(&auth.Config{APIKey: cfg.APIKey}))
		r.Use(middleware.IPRateLimit(limiter))
		r.Post("/presign", uploadHandler.HandlePresign)
		r.Post("/sign", uploadHandler.HandleSign)
		r.Delete("/{folder}/{fileName}", uploadHandler.HandleDelete)
	})

	r.Get("/v1/preview/{folder}/{fileName}", previewHandler.HandlePreview)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
