package config

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

func TestLoadConfigSuccess(t *testing.T) {
	t.Setenv("GAMBLEBOT_TEST_ODDS_KEY", "expanded_secret_value")

	cfg := loadValid(t)
	assert.Equal(t, "gamblebot", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8.0, cfg.Model.PseudoGames)
	assert.Equal(t, 5, cfg.Model.LookbackSeasons)
	assert.Equal(t, 50.0, cfg.Staking.UnitSize)
	assert.Equal(t, []string{"RB", "WR", "TE"}, cfg.Filters.TouchdownPositions)
	assert.Equal(t, 6*time.Hour, cfg.Sources.CacheTTL)
	assert.Equal(t, []string{"draftkings", "fanduel"}, cfg.Sources.OddsAPI.Books)
	assert.Equal(t, "expanded_secret_value", cfg.Sources.OddsAPI.APIKey)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.NoError(t, Validate(cfg))
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("GAMBLEBOT_APP_NAME", "test-app")

	cfg := loadValid(t)
	assert.Equal(t, "test-app", cfg.App.Name)
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	t.Setenv("GAMBLEBOT_STAKING_KELLY_FRACTION", "0.5")

	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "gamblebot", cfg.App.Name)
	assert.Equal(t, 0.5, cfg.Staking.KellyFraction)
	assert.Equal(t, 12*time.Hour, cfg.Sources.CacheTTL)
	assert.Equal(t, "csv", cfg.PredictionLog.Driver)
	assert.Equal(t, 2, cfg.Sources.OddsAPI.WindowWiden)
	assert.Equal(t, 0.02, cfg.Model.SackPriorFloor)
	assert.Equal(t, DefaultCron, cfg.Scheduler.Cron)
	assert.NoError(t, Validate(cfg))
}

func TestOddsAPIKeyFallback(t *testing.T) {
	t.Setenv("THEODDS_API_KEY", "from-env")

	cfg := &Config{}
	assert.Equal(t, "from-env", cfg.OddsAPIKey())

	cfg.Sources.OddsAPI.APIKey = "configured"
	assert.Equal(t, "configured", cfg.OddsAPIKey())
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"environment", func(c *Config) { c.App.Environment = "invalid" }, "development, staging, production"},
		{"log level", func(c *Config) { c.App.LogLevel = "trace" }, "debug, info, warn, error"},
		{"log driver", func(c *Config) { c.PredictionLog.Driver = "mongo" }, "csv, postgres, sqlite"},
		{"kelly fraction", func(c *Config) { c.Staking.KellyFraction = 1.5 }, "KellyFraction"},
		{"prior band", func(c *Config) { c.Model.TDPriorFloor = 0.06 }, "td_prior_floor"},
		{"sack prior floor", func(c *Config) { c.Model.SackPriorFloor = 0 }, "SackPriorFloor"},
		{"sack prior above cap", func(c *Config) {
			c.Model.SackCap = 0.5
			c.Model.SackPriorFloor = 0.6
		}, "sack_prior_floor"},
		{"postgres dsn", func(c *Config) { c.PredictionLog.Driver = "postgres" }, "prediction_log.dsn"},
		{"metrics path", func(c *Config) { c.Metrics.Enabled = true }, "textfile_path"},
		{"production key", func(c *Config) {
			c.App.Environment = "production"
			c.Sources.OddsAPI.APIKey = ""
		}, "odds API key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("THEODDS_API_KEY", "")
			cfg := loadValid(t)
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseSecretData(t *testing.T) {
	secrets, err := parseSecretData(&secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"odds_api_key":"k","prediction_log_dsn":"postgres://x"}`),
	})
	require.NoError(t, err)

	cfg := &Config{}
	overlaySecretsOnConfig(cfg, secrets)
	assert.Equal(t, "k", cfg.Sources.OddsAPI.APIKey)
	assert.Equal(t, "postgres://x", cfg.PredictionLog.DSN)

	_, err = parseSecretData(&secretsmanager.GetSecretValueOutput{})
	assert.ErrorIs(t, err, errNoSecretDataFound)

	_, err = parseSecretData(&secretsmanager.GetSecretValueOutput{SecretBinary: []byte("{")})
	assert.Error(t, err)
}
