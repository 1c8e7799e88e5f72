package features

import "github.com/yourusername/gamblebot/internal/table"

// Accepted column names per semantic field across stats feed versions.
var (
	PlayerSlot    = table.NewSlot("player", "player", "player_display_name", "player_name", "full_name", "name", "pfr_player_name")
	PlayerIDSlot  = table.NewSlot("player_id", "player_id", "gsis_id", "pfr_player_id", "id")
	TeamSlot      = table.NewSlot("team", "recent_team", "team", "posteam")
	PositionSlot  = table.NewSlot("position", "position", "pos")
	OpponentSlot  = table.NewSlot("opponent", "opponent_team", "opponent", "opp", "defteam")
	SeasonSlot    = table.NewSlot("season", "season", "year")
	WeekSlot      = table.NewSlot("week", "week", "game_week")
	RushTDSlot    = table.NewSlot("rushing_td", "rushing_tds", "rushing_td", "rush_td")
	RecTDSlot     = table.NewSlot("receiving_td", "receiving_tds", "receiving_td", "rec_td")
	RushAttSlot   = table.NewSlot("rush_attempts", "carries", "rushing_att", "rushing_attempts", "rush_att")
	TargetsSlot   = table.NewSlot("targets", "targets", "rec_targets")
	SacksSlot     = table.NewSlot("sacks", "def_sacks", "sacks", "sack")
	SnapsSlot     = table.NewSlot("pass_rush_snaps", "pass_rush_snaps", "pass_rush", "prp_snaps", "def_pass_rush_snaps")
	PressuresSlot = table.NewSlot("pressures", "def_pressures", "pressures", "total_pressures")
	WinRateSlot   = table.NewSlot("pass_rush_win_rate", "pass_rush_win_rate", "prwr", "pass_rush_win_pct")
)
