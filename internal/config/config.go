// Package config provides configuration management for gamblebot.
package config

import (
	"os"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	Model         ModelConfig         `mapstructure:"model" validate:"required"`
	Staking       StakingConfig       `mapstructure:"staking" validate:"required"`
	Filters       FiltersConfig       `mapstructure:"filters"`
	Sources       SourcesConfig       `mapstructure:"sources" validate:"required"`
	PredictionLog PredictionLogConfig `mapstructure:"prediction_log" validate:"required"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler"`
	Secrets       SecretsConfig       `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ModelConfig holds the probability model's prior strengths and bands
type ModelConfig struct {
	PseudoGames     float64 `mapstructure:"pseudo_games" validate:"gt=0"`
	PseudoSnaps     float64 `mapstructure:"pseudo_snaps" validate:"gt=0"`
	TDPriorFloor    float64 `mapstructure:"td_prior_floor" validate:"gte=0,lt=1"`
	TDPriorCeil     float64 `mapstructure:"td_prior_ceil" validate:"gt=0,lt=1"`
	SackPriorFloor  float64 `mapstructure:"sack_prior_floor" validate:"gt=0,lt=1"`
	TouchdownCap    float64 `mapstructure:"touchdown_cap" validate:"gt=0,lte=1"`
	SackCap         float64 `mapstructure:"sack_cap" validate:"gt=0,lte=1"`
	RecentWindow    int     `mapstructure:"recent_window" validate:"gt=0"`
	LookbackSeasons int     `mapstructure:"lookback_seasons" validate:"gte=0,lte=20"`
}

// StakingConfig represents stake sizing defaults
type StakingConfig struct {
	KellyFraction float64 `mapstructure:"kelly_fraction" validate:"gt=0,lte=1"`
	UnitSize      float64 `mapstructure:"unit_size" validate:"gt=0"`
	Top           int     `mapstructure:"top" validate:"gte=0"`
}

// FiltersConfig represents report filter defaults
type FiltersConfig struct {
	TouchdownPositions []string `mapstructure:"touchdown_positions"`
	SackPositions      []string `mapstructure:"sack_positions"`
	MinUsage           float64  `mapstructure:"min_usage" validate:"gte=0"`
	ExcludeInjured     bool     `mapstructure:"exclude_injured"`
}

// SourcesConfig represents upstream feed configuration
type SourcesConfig struct {
	NFLVerse NFLVerseConfig `mapstructure:"nflverse" validate:"required"`
	OddsAPI  OddsAPIConfig  `mapstructure:"odds_api" validate:"required"`
	HTTP     HTTPConfig     `mapstructure:"http" validate:"required"`
	CacheTTL time.Duration  `mapstructure:"cache_ttl" validate:"gte=0"`
}

// NFLVerseConfig holds the season feed URL templates; %d is the season
type NFLVerseConfig struct {
	WeeklyURL   string `mapstructure:"weekly_url" validate:"required"`
	DefenseURL  string `mapstructure:"defense_url" validate:"required"`
	TeamURL     string `mapstructure:"team_url" validate:"required"`
	InjuriesURL string `mapstructure:"injuries_url" validate:"required"`
	PBPURL      string `mapstructure:"pbp_url" validate:"required"`
}

// OddsAPIConfig represents The Odds API configuration
type OddsAPIConfig struct {
	BaseURL     string   `mapstructure:"base_url" validate:"required,url"`
	APIKey      string   `mapstructure:"api_key"`
	Sport       string   `mapstructure:"sport" validate:"required"`
	Regions     string   `mapstructure:"regions" validate:"required"`
	OddsFormat  string   `mapstructure:"odds_format" validate:"required,oneof=american"`
	Books       []string `mapstructure:"books"`
	WindowWiden int      `mapstructure:"window_widen_days" validate:"gte=0,lte=7"`
}

// HTTPConfig mirrors the feed HTTP client knobs
type HTTPConfig struct {
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"gt=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"gt=0"`
	BreakerCooldown   int     `mapstructure:"circuit_breaker_cooldown_seconds" validate:"gte=0"`
}

// PredictionLogConfig selects and configures the prediction log backend
type PredictionLogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver" validate:"required,logdriver"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
}

// MetricsConfig represents metrics output configuration
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	TextfilePath string `mapstructure:"textfile_path"`
}

// SchedulerConfig represents the weekly report schedule
type SchedulerConfig struct {
	Cron string `mapstructure:"cron"`
	Prop string `mapstructure:"prop" validate:"omitempty,oneof=td sack"`
}

// SecretsConfig points at an optional AWS Secrets Manager secret
type SecretsConfig struct {
	AWSRegion  string `mapstructure:"aws_region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// OddsAPIKey returns the configured key, falling back to THEODDS_API_KEY.
func (c *Config) OddsAPIKey() string {
	if c.Sources.OddsAPI.APIKey != "" {
		return c.Sources.OddsAPI.APIKey
	}
	return os.Getenv("THEODDS_API_KEY")
}

// HTTPTimeout returns the feed client timeout
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.Sources.HTTP.TimeoutSeconds) * time.Second
}
