package features

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gamblebot/internal/models"
)

const pbpDoc = `season,week,posteam,defteam,rusher_player_name,rusher_player_id,receiver_player_name,receiver_player_id,rush_attempt,pass_attempt,touchdown,td_player_name,sack_player_name,half_sack_1_player_name,half_sack_2_player_name
2024,1,BAL,KC,D.Henry,00-1,,,1,0,1,D.Henry,,,
2024,1,BAL,KC,D.Henry,00-1,,,1,0,0,,,,
2024,1,BAL,KC,D.Henry,00-1,,,1,0,1,D.Henry,,,
2024,1,BAL,KC,,,Z.Flowers,00-2,0,1,1,Z.Flowers,,,
2024,1,BAL,KC,,,Z.Flowers,00-2,0,1,0,,,,
2024,1,BAL,KC,,,,,0,1,0,,C.Jones,,
2024,1,BAL,KC,,,,,0,1,0,,,G.Karlaftis,C.Jones
2024,2,BAL,LV,D.Henry,00-1,,,1,0,0,,,,
`

func TestWeeklyFromPlayByPlay(t *testing.T) {
	weekly, err := WeeklyFromPlayByPlay(mustCSV(t, pbpDoc))
	require.NoError(t, err)
	assert.Equal(t, PlayByPlayColumns, weekly.Columns)

	stats, err := ParseWeekly(weekly)
	require.NoError(t, err)

	byName := func(name string, week int) models.PlayerWeekStat {
		for _, s := range stats {
			if s.Player == name && s.Week == week {
				return s
			}
		}
		t.Fatalf("no row for %s week %d", name, week)
		return models.PlayerWeekStat{}
	}

	henry := byName("D.Henry", 1)
	assert.Equal(t, "00-1", henry.PlayerID)
	assert.Equal(t, "BAL", henry.Team)
	assert.Equal(t, "KC", henry.Opponent)
	assert.Equal(t, 3.0, henry.RushingAttempts)
	assert.Equal(t, 2.0, henry.RushingTDs)
	assert.Equal(t, 2, henry.Touchdowns())

	flowers := byName("Z.Flowers", 1)
	assert.Equal(t, 2.0, flowers.Targets)
	assert.Equal(t, 1.0, flowers.ReceivingTDs)

	jones := byName("C.Jones", 1)
	assert.Equal(t, "KC", jones.Team)
	assert.Equal(t, "BAL", jones.Opponent)
	assert.Equal(t, 1.5, jones.Sacks)
	assert.Equal(t, 0.5, byName("G.Karlaftis", 1).Sacks)

	assert.Equal(t, 1.0, byName("D.Henry", 2).RushingAttempts)

	feats := Touchdowns(stats, DefaultRecentWindow)
	h := findPlayer(t, feats, "D.Henry")
	assert.Equal(t, 2, h.Games)
	assert.Equal(t, 1, h.Hits)
}

func TestTouchdownsSkipsSackerRows(t *testing.T) {
	weekly, err := WeeklyFromPlayByPlay(mustCSV(t, pbpDoc))
	require.NoError(t, err)
	stats, err := ParseWeekly(weekly)
	require.NoError(t, err)

	feats := Touchdowns(stats, DefaultRecentWindow)
	require.Len(t, feats, 2, "only the rusher and the receiver are priced")
	for _, f := range feats {
		assert.NotContains(t, []string{"C.Jones", "G.Karlaftis"}, f.Player)
	}

	var games int
	for _, f := range feats {
		games += f.Games
	}
	assert.Equal(t, 3, games, "sacker weeks do not add games to the touchdown prior")

	sacks := Sacks(stats, OpponentContext{}, DefaultRecentWindow)
	assert.Equal(t, 1, findPlayer(t, sacks, "C.Jones").Hits, "sacker rows still feed the sack model")
}

func TestTouchdownsKeepsQuietOffensiveWeeks(t *testing.T) {
	stats := []models.PlayerWeekStat{
		{Player: "A", Week: 1, RushingTDs: 2},
		{Player: "A", Week: 2},
	}
	feats := Touchdowns(stats, DefaultRecentWindow)
	require.Len(t, feats, 1)
	assert.Equal(t, 2, feats[0].Games)
}

func TestWeeklyFromPlayByPlayMissingColumns(t *testing.T) {
	_, err := WeeklyFromPlayByPlay(mustCSV(t, "season,posteam\n2024,BAL\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMissingColumn))
}

func TestBeforeWeek(t *testing.T) {
	tbl := mustCSV(t, "player,week\nA,1\nA,2\nA,3\nB,NA\n")

	assert.Equal(t, 2, BeforeWeek(tbl, 3).Len())
	assert.Equal(t, 0, BeforeWeek(tbl, 1).Len())
	assert.Equal(t, 4, BeforeWeek(tbl, 0).Len())

	noWeek := mustCSV(t, "player\nA\n")
	assert.Same(t, noWeek, BeforeWeek(noWeek, 5))
}
