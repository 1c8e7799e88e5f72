package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/gamblebot/internal/datasource"
	"github.com/yourusername/gamblebot/internal/features"
	"github.com/yourusername/gamblebot/internal/table"
)

// DefaultLookback bounds how many earlier seasons are searched.
const DefaultLookback = 5

// SeasonLoader loads one season-level feed.
type SeasonLoader func(ctx context.Context, season int) (*table.Table, error)

type primary struct {
	load SeasonLoader
}

// Primary uses the requested season, restricted to the weeks before the one
// being predicted.
func Primary(load SeasonLoader) Strategy {
	return primary{load: load}
}

func (primary) Name() string { return "primary" }

func (p primary) Load(ctx context.Context, season, week int) (Loaded, error) {
	t, err := p.load(ctx, season)
	if err != nil {
		return Loaded{}, err
	}
	return Loaded{Table: features.BeforeWeek(t, week), Season: season}, nil
}

type priorSeasons struct {
	load     SeasonLoader
	lookback int
}

// PriorSeasons walks back from season-1 to season-lookback and uses the
// most recent season with rows.
func PriorSeasons(load SeasonLoader, lookback int) Strategy {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return priorSeasons{load: load, lookback: lookback}
}

func (priorSeasons) Name() string { return "prior_seasons" }

func (p priorSeasons) Load(ctx context.Context, season, _ int) (Loaded, error) {
	var lastErr error
	for s := season - 1; s >= season-p.lookback; s-- {
		t, err := p.load(ctx, s)
		if err != nil {
			if ctx.Err() != nil {
				return Loaded{}, ctx.Err()
			}
			if !errors.Is(err, datasource.ErrUpstreamUnavailable) {
				lastErr = err
			}
			continue
		}
		if t != nil && !t.IsEmpty() {
			return Loaded{Table: t, Season: s}, nil
		}
	}
	if lastErr != nil {
		return Loaded{}, fmt.Errorf("%w: no season within %d of %d: %v", ErrTryNext, p.lookback, season, lastErr)
	}
	return Loaded{}, fmt.Errorf("%w: no season within %d of %d", ErrTryNext, p.lookback, season)
}

type playByPlay struct {
	load SeasonLoader
}

// PlayByPlay rebuilds weekly rows for the requested season from play-level
// data, restricted to the weeks before the one being predicted.
func PlayByPlay(load SeasonLoader) Strategy {
	return playByPlay{load: load}
}

func (playByPlay) Name() string { return "play_by_play" }

func (p playByPlay) Load(ctx context.Context, season, week int) (Loaded, error) {
	plays, err := p.load(ctx, season)
	if err != nil {
		return Loaded{}, err
	}
	weekly, err := features.WeeklyFromPlayByPlay(plays)
	if err != nil {
		return Loaded{}, err
	}
	return Loaded{Table: features.BeforeWeek(weekly, week), Season: season}, nil
}
