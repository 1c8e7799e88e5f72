package datasource

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gamblebot/internal/config"
)

// oddsCacheTTL bounds how long prices are reused; they move far faster
// than season stats.
const oddsCacheTTL = 10 * time.Minute

// Sources bundles the feed clients of a run.
type Sources struct {
	HTTP     *RateLimitedHTTPClient
	Cache    *ResponseCache
	NFLVerse *NFLVerseClient
	Odds     *OddsAPIClient
}

// Factory creates feed clients based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// HTTPClientConfig derives the client settings from configuration.
func (f *Factory) HTTPClientConfig() HTTPClientConfig {
	httpCfg := DefaultHTTPClientConfig()
	src := f.config.Sources.HTTP
	if src.TimeoutSeconds > 0 {
		httpCfg.Timeout = f.config.HTTPTimeout()
	}
	if src.MaxRetries >= 0 {
		httpCfg.MaxRetries = src.MaxRetries
	}
	if src.RateLimit > 0 {
		httpCfg.RateLimit = src.RateLimit
	}
	if src.CircuitBreakerMax > 0 {
		httpCfg.CircuitBreakerMax = src.CircuitBreakerMax
	}
	if src.BreakerCooldown > 0 {
		httpCfg.BreakerCooldown = time.Duration(src.BreakerCooldown) * time.Second
	}
	return httpCfg
}

// NewSources creates every feed client. cacheTTL overrides the configured
// TTL when non-negative; zero disables caching.
func (f *Factory) NewSources(cacheTTL time.Duration) *Sources {
	if cacheTTL < 0 {
		cacheTTL = f.config.Sources.CacheTTL
	}

	client := NewRateLimitedHTTPClient(f.HTTPClientConfig(), f.logger)
	statsCache := NewResponseCache(cacheTTL)
	oddsTTL := oddsCacheTTL
	if cacheTTL < oddsTTL {
		oddsTTL = cacheTTL
	}

	nv := f.config.Sources.NFLVerse
	oa := f.config.Sources.OddsAPI

	return &Sources{
		HTTP:  client,
		Cache: statsCache,
		NFLVerse: NewNFLVerseClient(NewCachedFetcher(client, statsCache), NFLVerseURLs{
			Weekly:     nv.WeeklyURL,
			Defense:    nv.DefenseURL,
			Team:       nv.TeamURL,
			Injuries:   nv.InjuriesURL,
			PlayByPlay: nv.PBPURL,
		}, f.logger),
		Odds: NewOddsAPIClient(NewCachedFetcher(client, NewResponseCache(oddsTTL)), OddsAPIConfig{
			BaseURL:    oa.BaseURL,
			APIKey:     f.config.OddsAPIKey(),
			Sport:      oa.Sport,
			Regions:    oa.Regions,
			OddsFormat: oa.OddsFormat,
			WidenDays:  oa.WindowWiden,
		}, f.logger),
	}
}

// Close releases the shared HTTP client.
func (s *Sources) Close() error {
	return s.HTTP.Close()
}
