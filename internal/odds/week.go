package odds

import "time"

// FirstThursdayOfSeptember is the anchor for the season's week 1.
func FirstThursdayOfSeptember(season int) time.Time {
	d := time.Date(season, time.September, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Thursday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

// WeekWindow returns the UTC kickoff window for an NFL week, widened by
// widenDays on each side to tolerate posting schedules.
func WeekWindow(season, week, widenDays int) (time.Time, time.Time) {
	kickoff := FirstThursdayOfSeptember(season).AddDate(0, 0, 7*(week-1))
	start := kickoff.AddDate(0, 0, -widenDays)
	end := start.AddDate(0, 0, 7+2*widenDays)
	return start, end
}

// WeekFor returns the NFL week containing t, with days before kickoff
// counting as week 1. The second return is false once t is past week 18.
func WeekFor(season int, t time.Time) (int, bool) {
	anchor := FirstThursdayOfSeptember(season).AddDate(0, 0, -3)
	if t.Before(anchor) {
		return 1, true
	}
	week := int(t.Sub(anchor).Hours()/(24*7)) + 1
	if week > 18 {
		return 18, false
	}
	return week, true
}

// SeasonFor returns the NFL season a date belongs to; January and February
// games belong to the previous year's season.
func SeasonFor(t time.Time) int {
	if t.Month() < time.March {
		return t.Year() - 1
	}
	return t.Year()
}
