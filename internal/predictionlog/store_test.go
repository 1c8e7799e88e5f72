package predictionlog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gamblebot/internal/config"
	"github.com/yourusername/gamblebot/internal/models"
)

func sampleEntries(runID uuid.UUID, week int, prop models.Prop) []models.PredictionLogEntry {
	line := 1.5
	at := time.Date(2024, 9, 19, 14, 0, 0, 0, time.UTC)
	return Entries(runID, 2024, week, prop, at, []models.EdgeRecord{
		{
			PlayerID: "00-0032764", Player: "Derrick Henry", Team: "BAL", Position: "RB",
			Book: "draftkings", Market: "player_tds_over", Line: &line,
			American: 450, Decimal: 5.5, ImpliedProb: 0.1818, ModelProb: 0.24, RecentUsage: 21.3,
			Edge: 0.0582, KellyFull: 0.0711, StakeFraction: 0.0178, StakeAmount: decimal.RequireFromString("1.78"),
		},
		{
			Player: "Zay Flowers", Team: "BAL", Position: "WR", Book: "fanduel",
			American: 900, Decimal: 10, ImpliedProb: 0.1, ModelProb: 0.08, RecentUsage: 8,
			Edge: -0.02, StakeAmount: decimal.Zero,
		},
	})
}

func testStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	runA, runB := uuid.New(), uuid.New()

	require.NoError(t, store.Append(ctx, sampleEntries(runA, 3, models.PropTwoPlusTD)))
	require.NoError(t, store.Append(ctx, sampleEntries(runB, 3, models.PropTwoPlusTD)))
	require.NoError(t, store.Append(ctx, sampleEntries(runB, 4, models.PropTwoPlusTD)))
	require.NoError(t, store.Append(ctx, sampleEntries(runB, 3, models.PropOnePlusSack)))
	require.NoError(t, store.Append(ctx, nil))

	got, err := store.Load(ctx, 2024, 3, models.PropTwoPlusTD)
	require.NoError(t, err)
	require.Len(t, got, 4, "duplicates across runs are kept")

	first := got[0]
	assert.Equal(t, runA, first.RunID)
	assert.Equal(t, "Derrick Henry", first.Player)
	assert.Equal(t, "00-0032764", first.PlayerID)
	assert.Equal(t, "draftkings", first.Book)
	require.NotNil(t, first.Line)
	assert.InDelta(t, 1.5, *first.Line, 1e-9)
	assert.Equal(t, 450, first.American)
	assert.InDelta(t, 5.5, first.Decimal, 1e-9)
	assert.InDelta(t, 0.24, first.ModelProb, 1e-9)
	assert.True(t, decimal.RequireFromString("1.78").Equal(first.StakeAmount))
	assert.True(t, first.Timestamp.Equal(time.Date(2024, 9, 19, 14, 0, 0, 0, time.UTC)))
	assert.Nil(t, got[1].Line)
	assert.Equal(t, runB, got[2].RunID)

	sacks, err := store.Load(ctx, 2024, 3, models.PropOnePlusSack)
	require.NoError(t, err)
	assert.Len(t, sacks, 2)

	none, err := store.Load(ctx, 2023, 3, models.PropTwoPlusTD)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCSVStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "predictions.csv")
	store := NewCSVStore(path)
	testStoreContract(t, store)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "run_id,timestamp"), "header is written once")
	assert.Equal(t, 9, strings.Count(string(data), "\n"))
}

func TestCSVStoreMissingFile(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "absent.csv"))
	got, err := store.Load(context.Background(), 2024, 1, models.PropTwoPlusTD)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCSVStoreLegacyRowsWithoutProp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.csv")
	doc := "season,week,player,team,model_prob,decimal,stake_amount\n2024,5,Derrick Henry,BAL,0.2,5.5,2.00\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	store := NewCSVStore(path)
	got, err := store.Load(context.Background(), 2024, 5, models.PropTwoPlusTD)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Derrick Henry", got[0].Player)
	assert.True(t, decimal.NewFromInt(2).Equal(got[0].StakeAmount))

	got, err = store.Load(context.Background(), 2024, 5, models.PropOnePlusSack)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCSVStoreLegacyOddsAndStakeUnits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.csv")
	doc := "season,week,team,player,model_prob,odds,implied_prob,edge,stake_units\n" +
		"2024,5,BAL,Derrick Henry,0.2,450,0.1818,0.0182,1.50\n" +
		"2024,5,KC,Isiah Pacheco,0.3,-120,0.5455,-0.2455,0.00\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	got, err := NewCSVStore(path).Load(context.Background(), 2024, 5, models.PropTwoPlusTD)
	require.NoError(t, err)
	require.Len(t, got, 2)

	henry := got[0]
	assert.Equal(t, 450, henry.American)
	assert.InDelta(t, 5.5, henry.Decimal, 1e-9)
	assert.InDelta(t, 0.1818, henry.ImpliedProb, 1e-9, "a logged implied probability is kept")
	assert.True(t, decimal.RequireFromString("1.50").Equal(henry.StakeAmount))

	pacheco := got[1]
	assert.Equal(t, -120, pacheco.American)
	assert.InDelta(t, 1+100.0/120, pacheco.Decimal, 1e-9)
	assert.True(t, pacheco.StakeAmount.IsZero())
}

func TestCSVStoreMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("player,odds\nX,2.0\n"), 0o644))

	_, err := NewCSVStore(path).Load(context.Background(), 2024, 1, models.PropTwoPlusTD)
	assert.ErrorIs(t, err, models.ErrMissingColumn)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "predictions.db"))
	require.NoError(t, err)
	defer store.Close()

	testStoreContract(t, store)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("GAMBLEBOT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GAMBLEBOT_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	store, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.DB().GetPool().Exec(ctx, "TRUNCATE prediction_log")
	require.NoError(t, err)

	testStoreContract(t, store)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(context.Background(), config.PredictionLogConfig{Driver: "csv", Path: filepath.Join(dir, "p.csv")})
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, store)

	store, err = Open(context.Background(), config.PredictionLogConfig{Driver: "sqlite", Path: filepath.Join(dir, "p.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(context.Background(), config.PredictionLogConfig{Driver: "parquet"})
	assert.Error(t, err)
}
