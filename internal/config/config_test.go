package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

func TestDefaults_Validate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []domain.Sport{domain.SportNFL, domain.SportNBA}, cfg.SportList())
}

func TestValidate_ArbitrageParamsAreInvalidConfiguration(t *testing.T) {
	cfg := Defaults()
	cfg.Arbitrage.TargetPayout = 0
	cfg.Arbitrage.StakeStrategy = "martingale"
	cfg.Mode = "bogus"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "target_payout")
	assert.Contains(t, err.Error(), "stake_strategy")
	assert.Contains(t, err.Error(), `unknown mode "bogus"`)
}

func TestValidate_CollectsInfrastructureProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Scanner.Sports = []string{"nfl", "curling"}
	cfg.Kafka.Enabled = true
	cfg.Kafka.Brokers = nil
	cfg.Mode = "server"
	cfg.Redis.Enabled = false

	err := cfg.Validate()
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidConfiguration)
	for _, want := range []string{
		`no tag configured for sport "curling"`,
		`no series configured for sport "curling"`,
		"kafka: brokers must not be empty",
		"redis.enabled must be true",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_KellyNeedsBankroll(t *testing.T) {
	cfg := Defaults()
	cfg.Arbitrage.StakeStrategy = "KELLY"
	cfg.Arbitrage.Bankroll = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "bankroll")

	cfg.Arbitrage.Bankroll = 500
	require.NoError(t, cfg.Validate())
	assert.Equal(t, domain.StakeKelly, cfg.Arbitrage.Params().StakeStrategy)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "once"

[scanner]
sports = ["nba"]
interval = "30s"

[arbitrage]
minimum_margin_percent = 2.5
target_payout = 250

[kalshi.series]
nba = ["KXNBAGAME"]
`), 0o600))

	t.Setenv("SPORTSARB_ARBITRAGE_TARGET_PAYOUT", "400")
	t.Setenv("SPORTSARB_KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SPORTSARB_SERVER_PORT", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "once", cfg.Mode)
	assert.Equal(t, []string{"nba"}, cfg.Scanner.Sports)
	assert.Equal(t, 30*time.Second, cfg.Scanner.Interval.Duration)
	assert.Equal(t, 15*time.Second, cfg.Scanner.HTTPTimeout.Duration, "defaults survive")
	assert.Equal(t, 2.5, cfg.Arbitrage.MinimumMarginPercent)
	assert.Equal(t, 400.0, cfg.Arbitrage.TargetPayout)
	assert.Equal(t, []string{"KXNBAGAME"}, cfg.Kalshi.Series["nba"])
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 8080, cfg.Server.Port, "unparseable override is ignored")
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Kalshi.APIKey = "key-id"
	cfg.Postgres.Password = "pw"
	cfg.Notify.TelegramToken = "tok"

	red := RedactedConfig(&cfg)
	assert.Equal(t, "***", red.Kalshi.APIKey)
	assert.Equal(t, "***", red.Postgres.Password)
	assert.Equal(t, "***", red.Notify.TelegramToken)
	assert.Empty(t, red.S3.SecretKey, "empty secrets stay empty")

	red.Polymarket.Tags["nfl"] = "changed"
	red.Kalshi.Series["nfl"][0] = "changed"
	assert.Equal(t, "nfl", cfg.Polymarket.Tags["nfl"])
	assert.Equal(t, "KXNFLGAME", cfg.Kalshi.Series["nfl"][0])
	assert.Equal(t, "key-id", cfg.Kalshi.APIKey)
}
