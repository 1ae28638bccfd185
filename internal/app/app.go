package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/marqueapp/marque/internal/auth"
	"github.com/marqueapp/marque/internal/config"
	"github.com/marqueapp/marque/internal/httpserver"
	"github.com/marqueapp/marque/internal/httpserver/deps"
	"github.com/marqueapp/marque/internal/logger"
	"github.com/marqueapp/marque/internal/notify"
	"github.com/marqueapp/marque/internal/redis"
	"github.com/marqueapp/marque/internal/seed"
	redisstore "github.com/marqueapp/marque/internal/store/redis"
	"github.com/marqueapp/marque/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	relay       *notify.Relay
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
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
	loggerClient.Info("Redis initialized successfully")

	// Writes feed the change channel so every connected dashboard hears
	// about them.
	feed := notify.NewFeed(redisClient)
	store := redisstore.NewStore(redisClient, feed)

	hub := notify.NewHub()
	relay := notify.NewRelay(redisClient, hub, loggerClient)

	secureCookies := strings.HasPrefix(cfg.BaseURL, "https://")

	sessions := auth.NewManager(cfg.SessionSecret, cfg.SessionTTL, store, secureCookies)

	oauthProvider := auth.NewProvider(auth.ProviderOptions{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		AuthURL:      cfg.OAuthAuthURL,
		TokenURL:     cfg.OAuthTokenURL,
		UserInfoURL:  cfg.OAuthUserInfoURL,
		RedirectURL:  cfg.BaseURL + "/auth/callback",
	})

	// Optional one-shot YAML import on startup
	if cfg.SeedFile != "" {
		if err := importSeed(cfg, store, loggerClient); err != nil {
			loggerClient.Warn("seed import failed, continuing without it",
				logger.String("file", cfg.SeedFile),
				logger.Error(err))
		}
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		SecureCookies: secureCookies,
		RedisClient:   redisClient,
		Bookmarks:     store,
		Sessions:      sessions,
		OAuth:         oauthProvider,
		Hub:           hub,
		RateBurst:     cfg.RateBurst,
		RateRefill:    cfg.RateRefill,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		relay:       relay,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Marque v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Marque %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the change relay (redis pub/sub -> in-process hub)
	if err := a.relay.Start(ctx); err != nil {
		return fmt.Errorf("failed to start change relay: %w", err)
	}
	a.logger.Info("change relay started",
		logger.String("channel", notify.Channel))

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

	// Stop the relay before the server so no event lands on a dead hub
	a.relay.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Marque stopped cleanly")
	return nil
}

// importSeed loads the configured YAML file and upserts its entries for
// the configured owner. IDs are derived from owner and URL, so repeated
// startups do not duplicate rows.
func importSeed(cfg *config.Config, store *redisstore.Store, log logger.Logger) error {
	file, err := seed.NewLoader(cfg.SeedFile).Load()
	if err != nil {
		return err
	}

	bookmarks, err := seed.NewMapper(cfg.SeedUserID).Map(file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.InsertMany(ctx, bookmarks); err != nil {
		return err
	}

	log.Info("seed import complete",
		logger.String("file", cfg.SeedFile),
		logger.Int("bookmarks", len(bookmarks)))
	return nil
}
