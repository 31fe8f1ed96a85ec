package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const envPrefix = "SPORTSARB_"

// Load decodes the TOML file at path over Defaults, loads .env if present,
// and applies SPORTSARB_* overrides. An empty path skips the file. The
// result is not validated; call Validate next.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides overwrites fields whose SPORTSARB_* variable is set and
// non-empty, so secrets can be injected at deploy time.
func applyEnvOverrides(cfg *Config) {
	// Scanner
	setStringSlice(&cfg.Scanner.Sports, "SCANNER_SPORTS")
	setDuration(&cfg.Scanner.Interval, "SCANNER_INTERVAL")
	setDuration(&cfg.Scanner.HTTPTimeout, "SCANNER_HTTP_TIMEOUT")
	setFloat64(&cfg.Scanner.RequestsPerSecond, "SCANNER_REQUESTS_PER_SECOND")

	// Arbitrage
	setFloat64(&cfg.Arbitrage.MinimumMarginPercent, "ARBITRAGE_MINIMUM_MARGIN_PERCENT")
	setFloat64(&cfg.Arbitrage.FeeAdjustmentPercent, "ARBITRAGE_FEE_ADJUSTMENT_PERCENT")
	setBool(&cfg.Arbitrage.IncludeFees, "ARBITRAGE_INCLUDE_FEES")
	setFloat64(&cfg.Arbitrage.TargetPayout, "ARBITRAGE_TARGET_PAYOUT")
	setStr(&cfg.Arbitrage.StakeStrategy, "ARBITRAGE_STAKE_STRATEGY")
	setFloat64(&cfg.Arbitrage.KellyConservatismFactor, "ARBITRAGE_KELLY_CONSERVATISM_FACTOR")
	setFloat64(&cfg.Arbitrage.Bankroll, "ARBITRAGE_BANKROLL")

	// Platforms
	setStr(&cfg.Polymarket.GammaHost, "POLYMARKET_GAMMA_HOST")
	setStr(&cfg.Kalshi.BaseURL, "KALSHI_BASE_URL")
	setStr(&cfg.Kalshi.APIKey, "KALSHI_API_KEY")
	setStr(&cfg.Kalshi.RSAPrivateKeyPath, "KALSHI_RSA_PRIVATE_KEY_PATH")
	setStr(&cfg.Kalshi.RSAKeyPassword, "KALSHI_RSA_KEY_PASSWORD")

	// Postgres
	setBool(&cfg.Postgres.Enabled, "POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "POSTGRES_DSN")
	setStr(&cfg.Postgres.DSN, "DATABASE_URL")
	setStr(&cfg.Postgres.Host, "POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "POSTGRES_SSL_MODE")
	setBool(&cfg.Postgres.RunMigrations, "POSTGRES_RUN_MIGRATIONS")

	// Redis
	setBool(&cfg.Redis.Enabled, "REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "REDIS_ADDR")
	setStr(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")
	setBool(&cfg.Redis.TLSEnabled, "REDIS_TLS_ENABLED")
	setStr(&cfg.Redis.KeyPrefix, "REDIS_KEY_PREFIX")
	setBool(&cfg.Redis.CycleLock, "REDIS_CYCLE_LOCK")

	// S3
	setBool(&cfg.S3.Enabled, "S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "S3_ENDPOINT")
	setStr(&cfg.S3.Region, "S3_REGION")
	setStr(&cfg.S3.Bucket, "S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "S3_FORCE_PATH_STYLE")
	setInt(&cfg.S3.MultipartThresholdMB, "S3_MULTIPART_THRESHOLD_MB")

	// Kafka
	setBool(&cfg.Kafka.Enabled, "KAFKA_ENABLED")
	setStringSlice(&cfg.Kafka.Brokers, "KAFKA_BROKERS")
	setStr(&cfg.Kafka.Topic, "KAFKA_TOPIC")

	// Server
	setBool(&cfg.Server.Enabled, "SERVER_ENABLED")
	setStr(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "SERVER_API_KEY")

	// Notify
	setBool(&cfg.Notify.Console, "NOTIFY_CONSOLE")
	setStr(&cfg.Notify.TelegramToken, "NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "NOTIFY_EVENTS")

	setStr(&cfg.Mode, "MODE")
	setStr(&cfg.LogLevel, "LOG_LEVEL")
}

// Typed env helpers. Each mutates dst only when SPORTSARB_<key> is set,
// non-empty and parses.

func lookup(key string) (string, bool) {
	v := os.Getenv(envPrefix + key)
	return v, v != ""
}

func setStr(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := lookup(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v, ok := lookup(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := lookup(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v, ok := lookup(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	parts := strings.Split(v, ",")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) > 0 {
		*dst = cleaned
	}
}
