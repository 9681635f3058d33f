package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/wapi/internal/config"
	"github.com/MrSnakeDoc/wapi/internal/httpserver"
	"github.com/MrSnakeDoc/wapi/internal/httpserver/deps"
	"github.com/MrSnakeDoc/wapi/internal/logger"
	"github.com/MrSnakeDoc/wapi/internal/qr"
	"github.com/MrSnakeDoc/wapi/internal/redis"
	redisstore "github.com/MrSnakeDoc/wapi/internal/store/redis"
	"github.com/MrSnakeDoc/wapi/internal/version"
	"github.com/MrSnakeDoc/wapi/internal/wapi"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	client *Client
	server *httpserver.Server
}

// Client bundles a service and whatever backs its cache, so one-shot
// commands can release both.
type Client struct {
	*wapi.Service
	redisClient *goredis.Client
	store       *redisstore.Store
	logger      logger.Logger
}

// NewClient builds the vendor client. When a Redis address is configured
// the response cache lives there, otherwise in memory.
func NewClient(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*Client, error) {
	opts := []wapi.Option{wapi.WithLogger(loggerClient)}

	c := &Client{logger: loggerClient}
	if cfg.RedisAddr != "" && cfg.CacheEnabled {
		redisClient, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient.Named("redis"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.redisClient = redisClient
		c.store = redisstore.NewStore(redisClient)
		opts = append(opts, wapi.WithCache(c.store))
		loggerClient.Info("response cache backed by redis", logger.String("addr", cfg.RedisAddr))
	}

	svc, err := wapi.New(cfg.Service(), opts...)
	if err != nil {
		if c.redisClient != nil {
			_ = c.redisClient.Close()
		}
		return nil, err
	}
	c.Service = svc
	return c, nil
}

// Close stops the service and closes Redis, if any.
func (c *Client) Close() error {
	err := c.Service.Close()
	if c.redisClient != nil {
		if cerr := c.redisClient.Close(); cerr != nil {
			c.logger.Warn("failed to close redis", logger.Error(cerr))
		} else {
			c.logger.Info("✅ Redis closed cleanly")
		}
	}
	return err
}

func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	client, err := NewClient(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedCIDRS: cfg.AllowedCIDRS,
		TrustProxy:   cfg.TrustProxy,
		Client:       client.Service,
		QRSize:       qr.DefaultSize,
	}
	if client.store != nil {
		d.CacheStore = client.store
	}

	return &App{
		cfg:    cfg,
		logger: loggerClient,
		client: client,
		server: httpserver.New(cfg, loggerClient, d),
	}, nil
}

// Run starts the health poller and the proxy and blocks until ctx is done
// or the server fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting wapi %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	if err := a.client.Start(ctx); err != nil {
		_ = a.client.Close()
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
		if ctx.Err() != nil {
			a.logger.Info("⏳ Shutting down gracefully...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})
	runErr := g.Wait()

	if err := a.client.Close(); err != nil {
		a.logger.Warn("failed to close client", logger.Error(err))
	}

	if runErr == nil {
		a.logger.Info("✅ wapi stopped cleanly")
	}
	return runErr
}
