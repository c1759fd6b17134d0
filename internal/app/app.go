// Package app wires storage, the background menu, the content context and the
// HTTP API into one process.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/config"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/content"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/httpserver/deps"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/menu"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/redis"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/scheduler"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/settings"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/sources/seed"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/store"
	redisstore "github.com/DougFavaretto/mockdata-browser-extension/internal/store/redis"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/store/sqlite"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/utils"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/version"
)

// ContentContextName names the content context driven by the API.
const ContentContextName = "api"

// area is a storage area the app owns and closes on shutdown.
type area interface {
	store.Area
	io.Closer
}

type App struct {
	cfg    *config.Config
	logger logger.Logger

	redisClient *goredis.Client
	area        area
	settings    *settings.Store
	queue       *scheduler.Queue
	resync      *scheduler.Ticker
	menu        *menu.Builder
	content     *content.Context
	server      *httpserver.Server

	ready     chan struct{} // closed once every component is started
	closeOnce sync.Once
}

// New opens the configured storage backend and builds every component. The
// redis backend blocks until Redis answers or the connect timeout expires.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: loggerClient, ready: make(chan struct{})}

	if err := a.openStorage(ctx); err != nil {
		return nil, err
	}

	a.settings = settings.NewStore(a.area, loggerClient)
	a.queue = scheduler.NewQueue("menu", loggerClient.With(logger.String("component", "menu")))
	a.menu = menu.NewBuilder(a.settings, a.queue, menu.NewIndex(), loggerClient)
	a.resync = scheduler.NewTicker("menu-resync", cfg.ResyncInterval, func(context.Context) {
		a.menu.Trigger(menu.ReasonResync, nil)
	}, loggerClient)
	a.content = content.New(ContentContextName, loggerClient.With(logger.String("component", "content")))

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		StorageBackend: cfg.StorageBackend,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		Storage:        a.area,
		Settings:       a.settings,
		Menu:           a.menu,
		Content:        a.content,
	}
	a.server = httpserver.New(cfg, loggerClient, d)

	return a, nil
}

func (a *App) openStorage(ctx context.Context) error {
	switch a.cfg.StorageBackend {
	case config.BackendRedis:
		a.logger.Infof("Connecting to Redis at %s", a.cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           a.cfg.RedisAddr,
			User:           a.cfg.RedisUser,
			Password:       a.cfg.RedisPassword,
			DB:             a.cfg.RedisDB,
			DialTimeout:    a.cfg.RedisDT,
			ReadTimeout:    a.cfg.RedisRT,
			WriteTimeout:   a.cfg.RedisWT,
			PoolSize:       a.cfg.RedisPoolSize,
			ConnectTimeout: a.cfg.RedisConnectTimeout,
			RetryInterval:  a.cfg.RedisRetryInterval,
			MaxWait:        a.cfg.RedisMaxWait,
			PingTimeout:    a.cfg.RedisPingTimeout,
			WarnThreshold:  a.cfg.RedisWarnThreshold,
		}, a.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redisClient = client
		a.area = redisstore.NewStore(client, store.AreaSync, a.logger)

	case config.BackendSQLite:
		s, err := sqlite.Open(a.cfg.SQLitePath, store.AreaSync)
		if err != nil {
			return err
		}
		a.logger.Info("sqlite storage opened", logger.String("path", a.cfg.SQLitePath))
		a.area = s

	case config.BackendMemory:
		a.logger.Warn("memory storage selected, settings are lost on restart")
		a.area = store.NewMemory(store.AreaSync)

	default:
		return fmt.Errorf("unknown storage backend %q", a.cfg.StorageBackend)
	}
	return nil
}

// Run starts every component and blocks until ctx is cancelled or the HTTP
// server fails, then shuts down in reverse order.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting mockdata %s on %s (storage=%s)",
		version.Version, a.cfg.ListenPort, a.cfg.StorageBackend)
	a.logger.Infof("mockdata %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	if err := a.start(ctx); err != nil {
		a.shutdown()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.shutdown()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.logger.Info("✅ mockdata stopped cleanly")
	return nil
}

// start brings up storage listeners, the seed, the menu and the content
// context. Run shuts everything down again when it fails.
func (a *App) start(ctx context.Context) error {
	if rs, ok := a.area.(*redisstore.Store); ok {
		if err := rs.Start(ctx); err != nil {
			return fmt.Errorf("failed to start redis change listener: %w", err)
		}
	}

	if err := a.seed(ctx); err != nil {
		return err
	}

	a.queue.Start(ctx)
	a.menu.Start()
	a.menu.Trigger(menu.ReasonStartup, nil)
	a.resync.Start(ctx)
	a.logger.Info("menu builder started")

	if err := a.content.Attach(ctx, a.settings); err != nil {
		return err
	}
	close(a.ready)
	return nil
}

// seed writes the seed file when the store holds no configuration yet.
func (a *App) seed(ctx context.Context) error {
	if a.cfg.SeedFile == "" {
		return nil
	}

	cfg, err := seed.Load(a.cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to load seed file: %w", err)
	}

	wrote, err := a.settings.Seed(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to seed config: %w", err)
	}
	if wrote {
		a.logger.Info("config seeded", logger.String("file", a.cfg.SeedFile))
	} else {
		a.logger.Debug("config already stored, seed skipped", logger.String("file", a.cfg.SeedFile))
	}
	return nil
}

func (a *App) shutdown() {
	a.closeOnce.Do(a.stopAll)
}

func (a *App) stopAll() {
	a.content.Detach()
	a.resync.Stop()
	a.menu.Stop()
	a.queue.Stop()

	utils.MustClose(a.area, "storage", a.logger)
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
}

// Close releases everything New opened. It is a no-op once Run has returned.
func (a *App) Close() {
	a.shutdown()
}
