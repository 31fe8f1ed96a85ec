// Package config defines the top-level configuration for the arbitrage
// scanner and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/alanyoungcy/sportsarb/internal/arbitrage"
	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by SPORTSARB_* environment variables.
type Config struct {
	Scanner    ScannerConfig    `toml:"scanner"`
	Arbitrage  ArbitrageConfig  `toml:"arbitrage"`
	Polymarket PolymarketConfig `toml:"polymarket"`
	Kalshi     KalshiConfig     `toml:"kalshi"`
	Postgres   PostgresConfig   `toml:"postgres"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Kafka      KafkaConfig      `toml:"kafka"`
	Server     ServerConfig     `toml:"server"`
	Notify     NotifyConfig     `toml:"notify"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// ScannerConfig controls the scan loop.
type ScannerConfig struct {
	Sports            []string `toml:"sports"`
	Interval          duration `toml:"interval"`
	HTTPTimeout       duration `toml:"http_timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
}

// ArbitrageConfig holds evaluation settings. It maps one-to-one onto
// arbitrage.Params.
type ArbitrageConfig struct {
	MinimumMarginPercent    float64 `toml:"minimum_margin_percent"`
	FeeAdjustmentPercent    float64 `toml:"fee_adjustment_percent"`
	IncludeFees             bool    `toml:"include_fees"`
	TargetPayout            float64 `toml:"target_payout"`
	StakeStrategy           string  `toml:"stake_strategy"`
	KellyConservatismFactor float64 `toml:"kelly_conservatism_factor"`
	Bankroll                float64 `toml:"bankroll"`
}

// Params converts the section to evaluator parameters.
func (a ArbitrageConfig) Params() arbitrage.Params {
	return arbitrage.Params{
		MinimumMarginPercent:    a.MinimumMarginPercent,
		FeeAdjustmentPercent:    a.FeeAdjustmentPercent,
		IncludeFees:             a.IncludeFees,
		TargetPayout:            a.TargetPayout,
		StakeStrategy:           domain.StakeStrategy(strings.ToLower(a.StakeStrategy)),
		KellyConservatismFactor: a.KellyConservatismFactor,
		Bankroll:                a.Bankroll,
	}
}

// PolymarketConfig holds the Gamma API endpoint and per-sport tag slugs.
type PolymarketConfig struct {
	GammaHost string            `toml:"gamma_host"`
	PageSize  int               `toml:"page_size"`
	MaxPages  int               `toml:"max_pages"`
	Tags      map[string]string `toml:"tags"`
}

// KalshiConfig holds Kalshi API credentials and per-sport series tickers.
type KalshiConfig struct {
	BaseURL           string              `toml:"base_url"`
	APIKey            string              `toml:"api_key"`
	RSAPrivateKeyPath string              `toml:"rsa_private_key_path"`
	RSAKeyPassword    string              `toml:"rsa_key_password"`
	PageSize          int                 `toml:"page_size"`
	MaxPages          int                 `toml:"max_pages"`
	Series            map[string][]string `toml:"series"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Enabled      bool     `toml:"enabled"`
	Addr         string   `toml:"addr"`
	Password     string   `toml:"password"`
	DB           int      `toml:"db"`
	PoolSize     int      `toml:"pool_size"`
	MaxRetries   int      `toml:"max_retries"`
	TLSEnabled   bool     `toml:"tls_enabled"`
	KeyPrefix    string   `toml:"key_prefix"`
	SnapshotTTL  duration `toml:"snapshot_ttl"`
	SeenTTL      duration `toml:"seen_ttl"`
	StreamMaxLen int      `toml:"stream_max_len"`
	CycleLock    bool     `toml:"cycle_lock"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
	Prefix         string `toml:"prefix"`
	SkipEmpty      bool   `toml:"skip_empty"`
	// MultipartThresholdMB switches large snapshots to multipart uploads.
	MultipartThresholdMB int `toml:"multipart_threshold_mb"`
}

// KafkaConfig holds the opportunity topic settings.
type KafkaConfig struct {
	Enabled      bool     `toml:"enabled"`
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	WriteTimeout duration `toml:"write_timeout"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type ServerConfig struct {
	Enabled        bool     `toml:"enabled"`
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	CORSOrigins    []string `toml:"cors_origins"`
	APIKey         string   `toml:"api_key"`
	RateLimitRPS   float64  `toml:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst"`
}

type NotifyConfig struct {
	Console           bool     `toml:"console"`
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// SportList returns the configured sports, lowercased.
func (c *Config) SportList() []domain.Sport {
	out := make([]domain.Sport, 0, len(c.Scanner.Sports))
	for _, s := range c.Scanner.Sports {
		out = append(out, domain.Sport(strings.ToLower(strings.TrimSpace(s))))
	}
	return out
}

func Defaults() Config {
	return Config{
		Scanner: ScannerConfig{
			Sports:            []string{"nfl", "nba"},
			Interval:          duration{time.Minute},
			HTTPTimeout:       duration{15 * time.Second},
			RequestsPerSecond: 5,
		},
		Arbitrage: ArbitrageConfig{
			MinimumMarginPercent:    0.5,
			FeeAdjustmentPercent:    0,
			IncludeFees:             false,
			TargetPayout:            100,
			StakeStrategy:           "equal",
			KellyConservatismFactor: 0.25,
			Bankroll:                1000,
		},
		Polymarket: PolymarketConfig{
			GammaHost: "https://gamma-api.polymarket.com",
			PageSize:  100,
			MaxPages:  20,
			Tags: map[string]string{
				"nfl": "nfl",
				"nba": "nba",
			},
		},
		Kalshi: KalshiConfig{
			BaseURL:  "https://api.elections.kalshi.com/trade-api/v2",
			PageSize: 200,
			MaxPages: 20,
			Series: map[string][]string{
				"nfl": {"KXNFLGAME", "KXNFLSPREAD"},
				"nba": {"KXNBAGAME", "KXNBASPREAD"},
			},
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "sportsarb",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  1,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			PoolSize:     10,
			MaxRetries:   3,
			KeyPrefix:    "sportsarb:",
			SnapshotTTL:  duration{time.Hour},
			SeenTTL:      duration{24 * time.Hour},
			StreamMaxLen: 1000,
		},
		S3: S3Config{
			Endpoint:             "http://localhost:9000",
			Region:               "us-east-1",
			Bucket:               "sportsarb",
			ForcePathStyle:       true,
			Prefix:               "snapshots",
			MultipartThresholdMB: 8,
		},
		Kafka: KafkaConfig{
			Brokers:      []string{"localhost:9092"},
			Topic:        "sportsarb.opportunities",
			WriteTimeout: duration{10 * time.Second},
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			Console: true,
			Events:  []string{"opportunity", "cycle_failed"},
		},
		Mode:     "scan",
		LogLevel: "info",
	}
}

var validModes = map[string]bool{
	"scan":   true,
	"once":   true,
	"server": true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate collects every problem into one error. Arbitrage problems wrap
// domain.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	var errs []string

	mode := strings.ToLower(c.Mode)
	if !validModes[mode] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: scan, once, server)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Scanner
	if len(c.Scanner.Sports) == 0 {
		errs = append(errs, "scanner: sports must not be empty")
	}
	for _, s := range c.SportList() {
		if _, ok := c.Polymarket.Tags[string(s)]; !ok {
			errs = append(errs, fmt.Sprintf("polymarket: no tag configured for sport %q", s))
		}
		if len(c.Kalshi.Series[string(s)]) == 0 {
			errs = append(errs, fmt.Sprintf("kalshi: no series configured for sport %q", s))
		}
	}
	if c.Scanner.Interval.Duration <= 0 {
		errs = append(errs, "scanner: interval must be > 0")
	}
	if c.Scanner.HTTPTimeout.Duration <= 0 {
		errs = append(errs, "scanner: http_timeout must be > 0")
	}
	if c.Scanner.RequestsPerSecond < 0 {
		errs = append(errs, "scanner: requests_per_second must be >= 0")
	}

	// Platforms
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Kalshi.BaseURL == "" {
		errs = append(errs, "kalshi: base_url must not be empty")
	}
	if c.Kalshi.RSAPrivateKeyPath != "" && c.Kalshi.APIKey == "" {
		errs = append(errs, "kalshi: api_key is required when rsa_private_key_path is set")
	}

	// Postgres
	if c.Postgres.Enabled {
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 || c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must be in [0, pool_max_conns]")
		}
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}
	if mode == "server" && !c.Redis.Enabled {
		errs = append(errs, "server mode reads snapshots from redis: redis.enabled must be true")
	}

	// S3
	if c.S3.Enabled && c.S3.Bucket == "" {
		errs = append(errs, "s3: bucket must not be empty")
	}

	// Kafka
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, "kafka: brokers must not be empty")
		}
		if c.Kafka.Topic == "" {
			errs = append(errs, "kafka: topic must not be empty")
		}
	}

	// Server
	if c.Server.Enabled || mode == "server" {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if err := c.Arbitrage.Params().Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", joinErr(err, errs))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// joinErr keeps err in the chain while listing the remaining problems.
func joinErr(err error, errs []string) error {
	if len(errs) == 0 {
		return err
	}
	return fmt.Errorf("%w\n  - %s", err, strings.Join(errs, "\n  - "))
}
