package models

// OddsQuote is one book's price on a player prop.
type OddsQuote struct {
	EventID     string   `db:"event_id" json:"event_id"`
	HomeTeam    string   `db:"home_team" json:"home_team"`
	AwayTeam    string   `db:"away_team" json:"away_team"`
	Book        string   `db:"book" json:"book"`
	Player      string   `db:"player" json:"player"`
	American    int      `db:"american" json:"american"`
	ImpliedProb float64  `db:"implied_prob" json:"implied_prob" validate:"gte=0,lte=1"`
	Line        *float64 `db:"line" json:"line"`
	Market      string   `db:"market" json:"market"`
}
