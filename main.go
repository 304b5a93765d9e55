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

	"viewtrap/domain/repository"
	"viewtrap/infrastructure/cache"
	youtubeclient "viewtrap/infrastructure/clients/youtube"
	"viewtrap/infrastructure/configuration"
	"viewtrap/infrastructure/logger"
	"viewtrap/infrastructure/persistence"
	httpHandler "viewtrap/interfaces/http"
	"viewtrap/server"
	"viewtrap/usecase"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Non-destructive: variables already set in the OS environment win.
	if loaded := configuration.LoadEnvFromFile("config.env", ".env"); len(loaded) > 0 {
		logger.GetLogger().WithField("files", loaded).Info("Loaded environment files")
		configuration.LoadConfig()
	}
	app := configuration.C.App

	redisClient := InitiateRedis(ctx)
	store := cache.NewStore(InitiateCacheBackend(ctx, redisClient), cache.Options{
		ExpiryMargin: time.Duration(configuration.C.Cache.ExpiryMarginSeconds) * time.Second,
		Environment:  app.Environment,
	})
	defer func() {
		if err := store.Close(); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Error while closing cache backend")
		}
	}()

	youtubeConfig := configuration.GetYouTubeConfig()
	pool := InitiateKeyPool(redisClient, youtubeConfig)
	logger.GetLogger().WithFields(map[string]interface{}{
		"totalKeys":  pool.Size(),
		"region":     youtubeConfig.RegionCode,
		"cache":      store.Backend().Name(),
		"quotaShare": configuration.C.YouTube.QuotaShared && redisClient != nil,
	}).Info("YouTube initialization summary")
	if pool.Size() == 0 {
		logger.GetLogger().Warn("No YouTube API keys configured - every response will use demo data")
	}

	youtubeUseCase := usecase.NewYouTubeUseCase(store, pool)
	router := server.InitiateRouter(
		server.RouterConfig{
			AllowedOrigins: app.AllowedOrigins,
			RateLimitRPS:   configuration.C.RateLimit.RPS,
			RateLimitBurst: configuration.C.RateLimit.Burst,
		},
		httpHandler.NewYouTubeHandler(youtubeUseCase),
		httpHandler.NewCacheHandler(youtubeUseCase),
		httpHandler.NewHealthHandler(store),
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.GetLogger().WithField("port", app.Port).Info("Starting application")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if repo, ok := store.Backend().(*persistence.YouTubeCacheRepository); ok {
		g.Go(func() error {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					purgeCtx, cancel := context.WithTimeout(gctx, 30*time.Second)
					if n, err := repo.PurgeExpired(purgeCtx); err != nil {
						logger.GetLogger().WithField("error", err).Warn("Failed purging expired cache rows")
					} else if n > 0 {
						logger.GetLogger().WithField("rows", n).Info("Purged expired cache rows")
					}
					cancel()
				}
			}
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.GetLogger().Info("Application shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateRedis connects to REDIS_URL (or KV_URL). It returns nil when Redis
// is not configured or not reachable.
func InitiateRedis(ctx context.Context) *redis.Client {
	url := configuration.C.RedisClient.URL
	if url == "" {
		return nil
	}
	client, err := cache.NewRedisClient(ctx, url)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without Redis")
		return nil
	}
	logger.GetLogger().Info("Redis connected successfully")
	return client
}

// InitiateCacheBackend picks Redis, then PostgreSQL, then process memory.
func InitiateCacheBackend(ctx context.Context, redisClient *redis.Client) repository.ICacheBackend {
	if redisClient != nil {
		return cache.NewRedisBackend(redisClient)
	}

	if url := configuration.C.Database.URL; url != "" {
		db, err := persistence.NewPostgreSQLDB(ctx, url)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available - falling back to memory cache")
		} else if err := persistence.EnsureYouTubeCacheSchema(ctx, db); err != nil {
			logger.GetLogger().WithField("error", err).Error("Failed ensuring youtube cache schema - falling back to memory cache")
			_ = db.Close()
		} else {
			logger.GetLogger().Info("PostgreSQL cache connected successfully")
			return persistence.NewYouTubeCacheRepository(db)
		}
	}

	logger.GetLogger().WithField("maxEntries", configuration.C.Cache.MaxEntries).Info("Using in-memory cache")
	return cache.NewMemoryBackend(configuration.C.Cache.MaxEntries)
}

// InitiateKeyPool builds the API key pool. Quota bookkeeping lives in Redis
// when QUOTA_SHARED is set and Redis is reachable.
func InitiateKeyPool(redisClient *redis.Client, youtubeConfig *configuration.YouTubeConfig) *youtubeclient.Pool[repository.IYouTube] {
	opts := youtubeclient.PoolOptions{ResetCooldown: configuration.C.ResetCooldown()}
	if configuration.C.YouTube.QuotaShared {
		if redisClient != nil {
			opts.State = youtubeclient.NewRedisQuotaState(redisClient, youtubeConfig.APIKeys)
			opts.Shared = true
		} else {
			logger.GetLogger().Warn("QUOTA_SHARED is set but Redis is not available - quota state stays in process")
		}
	}
	factory := youtubeclient.NewClientFactory(youtubeclient.Config{
		RegionCode:        youtubeConfig.RegionCode,
		RelevanceLanguage: youtubeConfig.RelevanceLanguage,
	})
	return youtubeclient.NewPool(youtubeConfig.APIKeys, factory, opts)
}
