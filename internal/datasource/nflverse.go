package datasource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gamblebot/internal/table"
)

const nflverseSourceName = "nflverse"

// Feed names a season-level CSV feed.
type Feed string

const (
	FeedWeekly     Feed = "weekly"
	FeedDefense    Feed = "defense"
	FeedTeam       Feed = "team"
	FeedInjuries   Feed = "injuries"
	FeedPlayByPlay Feed = "play_by_play"
)

// NFLVerseURLs are per-feed templates; %d is replaced by the season. A
// template without an http(s) scheme is read from the local filesystem.
type NFLVerseURLs struct {
	Weekly     string
	Defense    string
	Team       string
	Injuries   string
	PlayByPlay string
}

// NFLVerseClient loads season CSV feeds.
type NFLVerseClient struct {
	fetcher Fetcher
	urls    NFLVerseURLs
	logger  *logrus.Entry
}

// NewNFLVerseClient creates a new season feed client.
func NewNFLVerseClient(fetcher Fetcher, urls NFLVerseURLs, logger *logrus.Logger) *NFLVerseClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &NFLVerseClient{
		fetcher: fetcher,
		urls:    urls,
		logger:  logger.WithField("component", nflverseSourceName),
	}
}

// Weekly loads weekly offensive player stats.
func (c *NFLVerseClient) Weekly(ctx context.Context, season int) (*table.Table, error) {
	return c.Load(ctx, FeedWeekly, season)
}

// Defense loads weekly defensive player stats.
func (c *NFLVerseClient) Defense(ctx context.Context, season int) (*table.Table, error) {
	return c.Load(ctx, FeedDefense, season)
}

// Team loads weekly team stats.
func (c *NFLVerseClient) Team(ctx context.Context, season int) (*table.Table, error) {
	return c.Load(ctx, FeedTeam, season)
}

// Injuries loads the season's injury reports.
func (c *NFLVerseClient) Injuries(ctx context.Context, season int) (*table.Table, error) {
	return c.Load(ctx, FeedInjuries, season)
}

// PlayByPlay loads play-level data.
func (c *NFLVerseClient) PlayByPlay(ctx context.Context, season int) (*table.Table, error) {
	return c.Load(ctx, FeedPlayByPlay, season)
}

// Load fetches and parses one feed for a season.
func (c *NFLVerseClient) Load(ctx context.Context, feed Feed, season int) (*table.Table, error) {
	tmpl := c.template(feed)
	if tmpl == "" {
		return nil, NewDataSourceError(nflverseSourceName, ErrCodeNotFound, fmt.Sprintf("no URL configured for %s feed", feed), ErrUpstreamUnavailable)
	}
	target := tmpl
	if strings.Contains(tmpl, "%d") {
		target = fmt.Sprintf(tmpl, season)
	}

	body, err := c.read(ctx, target)
	if err != nil {
		code := codeForStatus(statusOf(err))
		if errors.Is(err, ErrUpstreamUnavailable) {
			code = ErrCodeNotFound
		} else if statusOf(err) == 0 {
			code = ErrCodeNetworkError
		}
		return nil, NewDataSourceError(nflverseSourceName, code, fmt.Sprintf("failed to load %s feed for %d", feed, season), err)
	}

	t, err := table.ReadCSV(bytes.NewReader(body))
	if err != nil {
		return nil, NewDataSourceError(nflverseSourceName, ErrCodeInvalidData, fmt.Sprintf("failed to parse %s feed for %d", feed, season), err)
	}

	c.logger.WithFields(logrus.Fields{
		"feed":   feed,
		"season": season,
		"rows":   t.Len(),
	}).Debug("Loaded feed")
	return t, nil
}

func (c *NFLVerseClient) read(ctx context.Context, target string) ([]byte, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return c.fetcher.Get(ctx, target)
	}
	body, err := os.ReadFile(strings.TrimPrefix(target, "file://"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, target)
	}
	return body, err
}

func (c *NFLVerseClient) template(feed Feed) string {
	switch feed {
	case FeedWeekly:
		return c.urls.Weekly
	case FeedDefense:
		return c.urls.Defense
	case FeedTeam:
		return c.urls.Team
	case FeedInjuries:
		return c.urls.Injuries
	case FeedPlayByPlay:
		return c.urls.PlayByPlay
	}
	return ""
}
