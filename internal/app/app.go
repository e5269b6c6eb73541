// Package app wires configuration, stores, background jobs and the HTTP server.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/links/internal/config"
	"github.com/MrSnakeDoc/links/internal/finder"
	"github.com/MrSnakeDoc/links/internal/httpserver"
	"github.com/MrSnakeDoc/links/internal/httpserver/deps"
	"github.com/MrSnakeDoc/links/internal/index"
	"github.com/MrSnakeDoc/links/internal/linkmeta"
	"github.com/MrSnakeDoc/links/internal/logger"
	"github.com/MrSnakeDoc/links/internal/redis"
	"github.com/MrSnakeDoc/links/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/links/internal/store/redis"
	"github.com/MrSnakeDoc/links/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	reloader    *scheduler.LinkReloader
	gc          *scheduler.GarbageCollector
	pool        *linkmeta.Pool
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}

	memIndex := index.NewMemoryIndex()
	store := redisstore.NewStore(redisClient)

	// Restore creation timestamps and pending deletions from the last run
	syncer := scheduler.NewRedisSyncer(store, memIndex, loggerClient)
	if err := syncer.Sync(context.Background()); err != nil {
		loggerClient.Warn("failed to sync from redis on startup, will load from link file only",
			logger.Error(err))
	}

	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewLinkReloader(
		cfg.LinkFile,
		store,
		memIndex,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	gc := scheduler.NewGarbageCollector(
		store,
		memIndex,
		loggerClient,
		cfg.GCInterval,
		cfg.GCThreshold,
	)

	pool := linkmeta.NewPool(linkmeta.NewFetcher(), cfg.FetchWorkers, cfg.FetchQueue, loggerClient)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		LinkFile:        cfg.LinkFile,
		RedisClient:     redisClient,
		MemoryIndex:     memIndex,
		Finder:          finder.New(memIndex, cfg.GroupConcurrency),
		Details:         pool,
		DetailCache:     store,
		DetailCacheTTL:  cfg.DetailCacheTTL,
		ReloadTrigger:   reloadTrigger,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		memIndex:    memIndex,
		reloader:    reloader,
		gc:          gc,
		pool:        pool,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting links %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the link file and start periodic refresh
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start link reloader: %w", err)
	}
	a.logger.Info("link reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("threshold", a.cfg.GCThreshold))

	// Workers outlive the signal context; Stop below ends them once the
	// server has drained.
	a.pool.Start()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// No request can submit fetches any more
	a.pool.Stop()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ links stopped cleanly")
	return nil
}
