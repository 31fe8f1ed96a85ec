package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/sportsarb/internal/arbitrage"
	s3blob "github.com/alanyoungcy/sportsarb/internal/blob/s3"
	"github.com/alanyoungcy/sportsarb/internal/cache/redis"
	"github.com/alanyoungcy/sportsarb/internal/catalog"
	"github.com/alanyoungcy/sportsarb/internal/config"
	"github.com/alanyoungcy/sportsarb/internal/crypto"
	"github.com/alanyoungcy/sportsarb/internal/domain"
	"github.com/alanyoungcy/sportsarb/internal/notify"
	"github.com/alanyoungcy/sportsarb/internal/platform/kalshi"
	"github.com/alanyoungcy/sportsarb/internal/platform/polymarket"
	"github.com/alanyoungcy/sportsarb/internal/server/handler"
	"github.com/alanyoungcy/sportsarb/internal/store/postgres"
	"github.com/alanyoungcy/sportsarb/internal/stream/kafka"
)

// Dependencies bundles everything the modes need. Optional backends are nil
// when disabled in config.
type Dependencies struct {
	Catalogs   *catalog.Registry
	Polymarket domain.MarketSource
	Kalshi     domain.MarketSource
	Evaluator  *arbitrage.Evaluator

	// Stores
	OpportunityStore domain.OpportunityStore
	AuditStore       domain.AuditStore

	// Caches
	SnapshotCache domain.SnapshotCache
	SignalBus     domain.SignalBus
	SeenSet       domain.SeenSet
	LockManager   domain.LockManager

	// Fan-out
	Archiver domain.SnapshotArchiver
	Kafka    *kafka.Publisher

	// Notifications
	Notifier *notify.Notifier

	// Checks backs /api/health.
	Checks map[string]handler.Pinger
}

// Wire constructs every dependency from cfg and returns a cleanup function
// releasing them in reverse order.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*Dependencies, func(), error) {
		cleanup()
		return nil, nil, err
	}

	deps := &Dependencies{
		Catalogs: catalog.Default(),
		Checks:   map[string]handler.Pinger{},
	}

	// --- Evaluation ---
	params := cfg.Arbitrage.Params()
	evaluator, err := arbitrage.NewEvaluator(params, arbitrage.DefaultRegistry(params, nil))
	if err != nil {
		return fail(fmt.Errorf("wire: evaluator: %w", err))
	}
	deps.Evaluator = evaluator

	// --- Platform clients ---
	timeout := cfg.Scanner.HTTPTimeout.Duration
	deps.Polymarket = polymarket.NewGammaClient(polymarket.GammaConfig{
		BaseURL:           cfg.Polymarket.GammaHost,
		Timeout:           timeout,
		RequestsPerSecond: cfg.Scanner.RequestsPerSecond,
		PageSize:          cfg.Polymarket.PageSize,
		MaxPages:          cfg.Polymarket.MaxPages,
		SportTags:         sportMap(cfg.Polymarket.Tags),
	})

	kc := kalshi.NewClient(kalshi.Config{
		BaseURL:           cfg.Kalshi.BaseURL,
		APIKeyID:          cfg.Kalshi.APIKey,
		Timeout:           timeout,
		RequestsPerSecond: cfg.Scanner.RequestsPerSecond,
		PageSize:          cfg.Kalshi.PageSize,
		MaxPages:          cfg.Kalshi.MaxPages,
		SportSeries:       sportMap(cfg.Kalshi.Series),
	})
	if cfg.Kalshi.RSAPrivateKeyPath != "" {
		pemBytes, err := crypto.ReadKeyFile(cfg.Kalshi.RSAPrivateKeyPath, cfg.Kalshi.RSAKeyPassword)
		if err != nil {
			return fail(fmt.Errorf("wire: kalshi key: %w", err))
		}
		if err := kc.SetRSAPrivateKey(pemBytes); err != nil {
			return fail(fmt.Errorf("wire: kalshi key: %w", err))
		}
	}
	deps.Kalshi = kc

	// --- PostgreSQL ---
	if cfg.Postgres.Enabled {
		pg, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:            cfg.Postgres.DSN,
			Host:           cfg.Postgres.Host,
			Port:           cfg.Postgres.Port,
			Database:       cfg.Postgres.Database,
			User:           cfg.Postgres.User,
			Password:       cfg.Postgres.Password,
			SSLMode:        cfg.Postgres.SSLMode,
			MaxConns:       cfg.Postgres.PoolMaxConns,
			MinConns:       cfg.Postgres.PoolMinConns,
			ConnectTimeout: 10 * time.Second,
		})
		if err != nil {
			return fail(fmt.Errorf("wire: postgres: %w", err))
		}
		closers = append(closers, pg.Close)

		if cfg.Postgres.RunMigrations {
			if err := pg.RunMigrations(ctx); err != nil {
				return fail(fmt.Errorf("wire: postgres migrations: %w", err))
			}
		}

		pool := pg.Pool()
		deps.OpportunityStore = postgres.NewOpportunityStore(pool)
		deps.AuditStore = postgres.NewAuditStore(pool)
		deps.Checks["postgres"] = func(ctx context.Context) error { return pool.Ping(ctx) }
	}

	// --- Redis ---
	if cfg.Redis.Enabled {
		rc, err := redis.New(ctx, redis.ClientConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    cfg.Redis.PoolSize,
			MaxRetries:  cfg.Redis.MaxRetries,
			TLSEnabled:  cfg.Redis.TLSEnabled,
			KeyPrefix:   cfg.Redis.KeyPrefix,
			DialTimeout: 5 * time.Second,
		})
		if err != nil {
			return fail(fmt.Errorf("wire: redis: %w", err))
		}
		closers = append(closers, func() { _ = rc.Close() })

		deps.SnapshotCache = redis.NewSnapshotCache(rc, cfg.Redis.SnapshotTTL.Duration)
		deps.SignalBus = redis.NewSignalBus(rc, int64(cfg.Redis.StreamMaxLen))
		deps.SeenSet = redis.NewSeenSet(rc, cfg.Redis.SeenTTL.Duration)
		if cfg.Redis.CycleLock {
			deps.LockManager = redis.NewLockManager(rc)
		}
		deps.Checks["redis"] = rc.Ping
	}

	// --- S3 snapshot archive ---
	if cfg.S3.Enabled {
		sc, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			return fail(fmt.Errorf("wire: s3: %w", err))
		}
		archiver := s3blob.NewSnapshotArchiver(s3blob.NewWriter(sc), cfg.S3.Prefix)
		archiver.SkipEmpty = cfg.S3.SkipEmpty
		archiver.MultipartThreshold = int64(cfg.S3.MultipartThresholdMB) << 20
		deps.Archiver = archiver
		deps.Checks["s3"] = sc.Health
	}

	// --- Kafka ---
	if cfg.Kafka.Enabled {
		pub, err := kafka.NewPublisher(kafka.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout.Duration,
		})
		if err != nil {
			return fail(fmt.Errorf("wire: kafka: %w", err))
		}
		closers = append(closers, func() {
			if err := pub.Close(); err != nil {
				logger.Warn("kafka close failed", slog.String("error", err.Error()))
			}
		})
		deps.Kafka = pub
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.Console {
		senders = append(senders, notify.NewConsoleSender())
	}
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}

// sportMap re-keys a config map by domain.Sport.
func sportMap[V any](in map[string]V) map[domain.Sport]V {
	out := make(map[domain.Sport]V, len(in))
	for k, v := range in {
		out[domain.Sport(k)] = v
	}
	return out
}
