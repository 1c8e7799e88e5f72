package models

// PlayerWeekStat is one player's counting stats for one week, as ingested
// from the stats feed.
type PlayerWeekStat struct {
	PlayerID        string  `json:"player_id"`
	Player          string  `json:"player"`
	Team            string  `json:"team"`
	Position        string  `json:"position"`
	Opponent        string  `json:"opponent"`
	Season          int     `json:"season"`
	Week            int     `json:"week"`
	RushingAttempts float64 `json:"rushing_attempts"`
	Targets         float64 `json:"targets"`
	RushingTDs      float64 `json:"rushing_tds"`
	ReceivingTDs    float64 `json:"receiving_tds"`
	Sacks           float64 `json:"sacks"`
	PassRushSnaps   float64 `json:"pass_rush_snaps"`
	Pressures       float64 `json:"pressures"`
	PassRushWinRate float64 `json:"pass_rush_win_rate"`
}

// Touchdowns returns rushing plus receiving touchdowns.
func (s PlayerWeekStat) Touchdowns() int {
	return int(s.RushingTDs) + int(s.ReceivingTDs)
}

// Opportunities returns rush attempts plus targets.
func (s PlayerWeekStat) Opportunities() float64 {
	return s.RushingAttempts + s.Targets
}

// RushOpportunities is the usage measure for pass rushers: pass-rush snaps
// when the feed has them, pressures otherwise.
func (s PlayerWeekStat) RushOpportunities() float64 {
	if s.PassRushSnaps > 0 {
		return s.PassRushSnaps
	}
	return s.Pressures
}

// PlayerFeatures aggregates a player's weekly rows for a season.
type PlayerFeatures struct {
	PlayerID    string  `json:"player_id"`
	Player      string  `json:"player"`
	Team        string  `json:"team"`
	Position    string  `json:"position"`
	Games       int     `json:"games"`
	Hits        int     `json:"hits"`
	MeanRate    float64 `json:"mean_rate"`
	RecentUsage float64 `json:"recent_usage"`

	// Pass-rush inputs, zero for the touchdown model.
	Snaps               float64 `json:"snaps,omitempty"`
	PressuresPerGame    float64 `json:"pressures_per_game,omitempty"`
	WinRate             float64 `json:"win_rate,omitempty"`
	Opponent            string  `json:"opponent,omitempty"`
	OppDropbacksPerGame float64 `json:"opp_dropbacks_per_game,omitempty"`
	OppSackRate         float64 `json:"opp_sack_rate,omitempty"`
}

// SnapsPerGame returns pass-rush snaps per observed game.
func (f PlayerFeatures) SnapsPerGame() float64 {
	if f.Games == 0 {
		return 0
	}
	return f.Snaps / float64(f.Games)
}

// TeamContext is an opponent's pass-protection profile, already shrunk
// toward the league mean.
type TeamContext struct {
	Team             string  `json:"team"`
	Games            int     `json:"games"`
	DropbacksPerGame float64 `json:"dropbacks_per_game"`
	SackRate         float64 `json:"sack_rate"`
}

// InjuryStatus is the latest report status for a player.
type InjuryStatus struct {
	Player string `json:"player"`
	Status string `json:"status"`
}
