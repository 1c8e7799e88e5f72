package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ModelProbability is the model's estimate that a player hits a prop.
type ModelProbability struct {
	PlayerFeatures
	Prop           Prop    `json:"prop"`
	Lambda         float64 `json:"lambda"`
	RawProbability float64 `json:"raw_probability"`
	Prior          float64 `json:"prior"`
	Weight         float64 `json:"weight"`
	Probability    float64 `json:"model_prob" validate:"gte=0,lte=1"`
}

// EdgeRecord joins a model probability with the best market quote and the
// resulting stake recommendation.
type EdgeRecord struct {
	PlayerID      string          `db:"player_id" json:"player_id"`
	Player        string          `db:"player" json:"player"`
	Team          string          `db:"team" json:"team"`
	Position      string          `db:"position" json:"position"`
	Book          string          `db:"book" json:"book"`
	Market        string          `db:"market" json:"market"`
	Line          *float64        `db:"line" json:"line"`
	American      int             `db:"american" json:"american"`
	Decimal       float64         `db:"decimal" json:"decimal"`
	ImpliedProb   float64         `db:"implied_prob" json:"implied_prob"`
	ModelProb     float64         `db:"model_prob" json:"model_prob"`
	RecentUsage   float64         `db:"recent_usage" json:"recent_usage"`
	Edge          float64         `db:"edge" json:"edge"`
	KellyFull     float64         `db:"kelly_full" json:"kelly_full"`
	StakeFraction float64         `db:"stake_fraction" json:"stake_fraction"`
	StakeAmount   decimal.Decimal `db:"stake_amount" json:"stake_amount"`
}

// PredictionLogEntry is an EdgeRecord captured in the append-only log.
type PredictionLogEntry struct {
	EdgeRecord
	RunID     uuid.UUID `db:"run_id" json:"run_id"`
	Season    int       `db:"season" json:"season"`
	Week      int       `db:"week" json:"week"`
	Prop      Prop      `db:"prop" json:"prop"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

// HasPositiveEdge reports whether the model prices the player above the market.
func (r *EdgeRecord) HasPositiveEdge() bool {
	return r.Edge > 0
}
