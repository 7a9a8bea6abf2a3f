package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nuzum/backend/internal/blob"
	"nuzum/backend/internal/cache"
	"nuzum/backend/internal/config"
	"nuzum/backend/internal/currency"
	"nuzum/backend/internal/httpapi"
	"nuzum/backend/internal/ledger"
	"nuzum/backend/internal/logger"
	"nuzum/backend/internal/store"
	"nuzum/backend/internal/store/memory"
	pgstore "nuzum/backend/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 3)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres unavailable and DATABASE_URL is set; refusing to start with in-memory fallback")
		}
		if err := pg.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("schema migration failed")
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Info().Msg("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		log.Warn().Msg("repository: in-memory, data will not survive restarts")
	}

	catalogCache := cache.CatalogCache(cache.NewMemoryCatalogCache())
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCatalogCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-process catalog cache")
		} else {
			catalogCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Info().Msg("catalog cache: redis")
		}
	} else {
		log.Info().Msg("catalog cache: in-process")
	}

	blobs := blob.Storage(blob.NoopStorage{})
	if cfg.GCSBucket != "" {
		gcs, err := blob.NewGCSStorage(ctx, cfg.GCSBucket)
		if err != nil {
			log.Warn().Err(err).Msg("gcs unavailable, attachment cleanup disabled")
		} else {
			blobs = gcs
			closers = append(closers, gcs.Close)
			log.Info().Str("bucket", cfg.GCSBucket).Msg("blob storage: gcs")
		}
	}

	resolver := currency.NewResolver(repo, catalogCache, time.Duration(cfg.CatalogCacheTTLSeconds)*time.Second)
	svc := ledger.New(repo, resolver, blobs, log)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, repo)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin, log)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Address()).Msg("ledger backend listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Error().Err(err).Msg("close error")
		}
	}

	log.Info().Msg("server stopped")
}
