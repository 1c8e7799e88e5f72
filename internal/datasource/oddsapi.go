package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gamblebot/internal/logger"
	"github.com/yourusername/gamblebot/internal/metrics"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/odds"
)

const oddsAPISourceName = "the_odds_api"

// OddsAPIConfig configures the Odds API client.
type OddsAPIConfig struct {
	BaseURL    string
	APIKey     string
	Sport      string
	Regions    string
	OddsFormat string
	WidenDays  int
}

// Event is an Odds API event listing.
type Event struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}

type eventOdds struct {
	ID         string          `json:"id"`
	HomeTeam   string          `json:"home_team"`
	AwayTeam   string          `json:"away_team"`
	Bookmakers []bookmakerOdds `json:"bookmakers"`
}

type bookmakerOdds struct {
	Key     string       `json:"key"`
	Title   string       `json:"title"`
	Markets []marketOdds `json:"markets"`
}

type marketOdds struct {
	Key      string         `json:"key"`
	Outcomes []odds.Outcome `json:"outcomes"`
}

// FeedFailure is an event/market request that was skipped.
type FeedFailure struct {
	EventID string
	Market  string
	Status  int
	Err     error
}

// OddsFeed is the result of walking a week's events.
type OddsFeed struct {
	Events   int
	Quotes   []models.OddsQuote
	Failures []FeedFailure
}

// OddsAPIClient reads player prop prices from The Odds API v4.
type OddsAPIClient struct {
	fetcher Fetcher
	cfg     OddsAPIConfig
	runLog  *logger.RunLogger
}

// NewOddsAPIClient creates a new Odds API client.
func NewOddsAPIClient(fetcher Fetcher, cfg OddsAPIConfig, log *logrus.Logger) *OddsAPIClient {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OddsAPIClient{
		fetcher: fetcher,
		cfg:     cfg,
		runLog:  logger.NewRunLogger(log),
	}
}

func (c *OddsAPIClient) params(extra url.Values) string {
	q := url.Values{}
	q.Set("apiKey", c.cfg.APIKey)
	q.Set("regions", c.cfg.Regions)
	q.Set("oddsFormat", c.cfg.OddsFormat)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return q.Encode()
}

// Events lists the events inside the week's kickoff window.
func (c *OddsAPIClient) Events(ctx context.Context, season, week int) ([]Event, error) {
	if c.cfg.APIKey == "" {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeAuthenticationFailed, "missing API key", ErrMissingAPIKey)
	}

	from, to := odds.WeekWindow(season, week, c.cfg.WidenDays)
	target := fmt.Sprintf("%s/sports/%s/events?%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Sport, c.params(url.Values{
		"commenceTimeFrom": {from.Format(time.RFC3339)},
		"commenceTimeTo":   {to.Format(time.RFC3339)},
	}))

	body, err := c.fetcher.Get(ctx, target)
	if err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, codeForStatus(statusOf(err)), "failed to list events", err)
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse events", err)
	}
	return events, nil
}

// FetchQuotes walks the week's events and returns every eligible quote for
// prop. For each event the candidate markets are tried in order and the
// first one yielding quotes wins. Failed event/market requests are skipped,
// logged and counted.
func (c *OddsAPIClient) FetchQuotes(ctx context.Context, prop models.Prop, season, week int, books []string) (*OddsFeed, error) {
	events, err := c.Events(ctx, season, week)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(books))
	for _, b := range books {
		if b = strings.ToLower(strings.TrimSpace(b)); b != "" {
			allowed[b] = true
		}
	}

	feed := &OddsFeed{Events: len(events)}
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return feed, err
		}
		for _, market := range odds.Markets(prop) {
			data, err := c.eventOdds(ctx, ev.ID, market)
			if err != nil {
				status := statusOf(err)
				feed.Failures = append(feed.Failures, FeedFailure{EventID: ev.ID, Market: market, Status: status, Err: err})
				metrics.RecordOddsFeedFailure(market)
				c.runLog.LogFeedFailure(ev.ID, market, status, err)
				continue
			}

			quotes := extractQuotes(prop, market, ev, data, allowed)
			if len(quotes) > 0 {
				feed.Quotes = append(feed.Quotes, quotes...)
				break
			}
		}
	}
	return feed, nil
}

func (c *OddsAPIClient) eventOdds(ctx context.Context, eventID, market string) (*eventOdds, error) {
	target := fmt.Sprintf("%s/sports/%s/events/%s/odds?%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Sport,
		url.PathEscape(eventID), c.params(url.Values{"markets": {market}}))

	body, err := c.fetcher.Get(ctx, target)
	if err != nil {
		return nil, err
	}

	var data eventOdds
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, NewDataSourceError(oddsAPISourceName, ErrCodeInvalidData, "failed to parse event odds", err)
	}
	return &data, nil
}

func extractQuotes(prop models.Prop, market string, ev Event, data *eventOdds, allowed map[string]bool) []models.OddsQuote {
	home, away := data.HomeTeam, data.AwayTeam
	if home == "" {
		home, away = ev.HomeTeam, ev.AwayTeam
	}

	var out []models.OddsQuote
	for _, bm := range data.Bookmakers {
		book := strings.ToLower(bm.Key)
		if len(allowed) > 0 && !allowed[book] {
			continue
		}
		for _, mk := range bm.Markets {
			if !odds.MarketMatches(prop, market, mk.Key) {
				continue
			}
			for _, outcome := range mk.Outcomes {
				q, ok := odds.Quote(prop, market, outcome)
				if !ok {
					continue
				}
				q.EventID = ev.ID
				q.HomeTeam = home
				q.AwayTeam = away
				q.Book = book
				out = append(out, q)
			}
		}
	}
	return out
}
