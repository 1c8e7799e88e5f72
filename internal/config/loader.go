// Package config provides configuration management for gamblebot.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "GAMBLEBOT"

// DefaultCron runs the weekly report Tuesdays at 14:00, after Monday night.
const DefaultCron = "0 14 * * 2"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for every key.
// A missing file is not an error: defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := newViper()
	setDefaults(v)

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gamblebot")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("model.pseudo_games", 8.0)
	v.SetDefault("model.pseudo_snaps", 200.0)
	v.SetDefault("model.td_prior_floor", 0.002)
	v.SetDefault("model.td_prior_ceil", 0.05)
	v.SetDefault("model.sack_prior_floor", 0.02)
	v.SetDefault("model.touchdown_cap", 0.30)
	v.SetDefault("model.sack_cap", 0.95)
	v.SetDefault("model.recent_window", 4)
	v.SetDefault("model.lookback_seasons", 5)

	v.SetDefault("staking.kelly_fraction", 0.25)
	v.SetDefault("staking.unit_size", 100.0)
	v.SetDefault("staking.top", 25)

	v.SetDefault("filters.touchdown_positions", []string{"RB", "WR", "TE"})
	v.SetDefault("filters.sack_positions", []string{"DE", "DT", "OLB", "LB", "EDGE", "DL"})
	v.SetDefault("filters.min_usage", 3.0)
	v.SetDefault("filters.exclude_injured", true)

	v.SetDefault("sources.nflverse.weekly_url", "https://github.com/nflverse/nflverse-data/releases/download/player_stats/player_stats_%d.csv")
	v.SetDefault("sources.nflverse.defense_url", "https://github.com/nflverse/nflverse-data/releases/download/player_stats/player_stats_def_%d.csv")
	v.SetDefault("sources.nflverse.team_url", "https://github.com/nflverse/nflverse-data/releases/download/team_stats/team_stats_%d.csv")
	v.SetDefault("sources.nflverse.injuries_url", "https://github.com/nflverse/nflverse-data/releases/download/injuries/injuries_%d.csv")
	v.SetDefault("sources.nflverse.pbp_url", "https://github.com/nflverse/nflverse-data/releases/download/pbp/play_by_play_%d.csv")
	v.SetDefault("sources.odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("sources.odds_api.api_key", "")
	v.SetDefault("sources.odds_api.sport", "americanfootball_nfl")
	v.SetDefault("sources.odds_api.regions", "us,us2")
	v.SetDefault("sources.odds_api.odds_format", "american")
	v.SetDefault("sources.odds_api.books", []string{})
	v.SetDefault("sources.odds_api.window_widen_days", 2)
	v.SetDefault("sources.http.timeout_seconds", 30)
	v.SetDefault("sources.http.max_retries", 3)
	v.SetDefault("sources.http.rate_limit", 5.0)
	v.SetDefault("sources.http.circuit_breaker_max", 5)
	v.SetDefault("sources.http.circuit_breaker_cooldown_seconds", 60)
	v.SetDefault("sources.cache_ttl", 12*time.Hour)

	v.SetDefault("prediction_log.enabled", true)
	v.SetDefault("prediction_log.driver", "csv")
	v.SetDefault("prediction_log.path", "prediction_log.csv")
	v.SetDefault("prediction_log.dsn", "")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile_path", "")

	v.SetDefault("scheduler.cron", DefaultCron)
	v.SetDefault("scheduler.prop", "td")

	v.SetDefault("secrets.aws_region", "")
	v.SetDefault("secrets.secret_name", "")
}
