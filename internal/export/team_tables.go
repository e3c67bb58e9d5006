package export

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gridstats/nfl-export/internal/frame"
)

// WeeklyTeamColumns is the persisted column order of WeeklyTeamData.
var WeeklyTeamColumns = []string{
	"teamID", "week", "year", "wins", "losses", "ties", "pointsFor", "pointsAgainst",
}

// TeamMappingColumns is the persisted column order of TeamMapping.
var TeamMappingColumns = []string{"teamID", "name", "city", "conference", "division"}

// BuildWeeklyTeamData unpivots each scheduled game into one row per
// participant, computes a signed result per row, and keeps a running
// inclusive total of wins, losses and ties per (team, year) ordered by week.
func BuildWeeklyTeamData(pctx *Context, logger *slog.Logger) (*frame.Frame, error) {
	src := pctx.Schedules
	if src.Len() == 0 {
		logger.Warn("no schedule data available")
		return frame.New(WeeklyTeamColumns), nil
	}

	home, err := src.Select(
		frame.As("season", "year"),
		frame.C("week"),
		frame.As("home_team", "team"),
		frame.As("home_score", "pointsFor"),
		frame.As("away_score", "pointsAgainst"),
	)
	if err != nil {
		return nil, err
	}
	away, err := src.Select(
		frame.As("season", "year"),
		frame.C("week"),
		frame.As("away_team", "team"),
		frame.As("away_score", "pointsFor"),
		frame.As("home_score", "pointsAgainst"),
	)
	if err != nil {
		return nil, err
	}

	df := frame.Concat(home, away)
	df = df.WithColumn("result", signedResult)
	df.Sort("team", "year", "week")

	// Running totals accumulate in sorted row order, so the value at week W
	// covers all games through W inclusive for that team and year.
	df = runningTotal(df, "wins", func(res float64) bool { return res > 0 })
	df = runningTotal(df, "losses", func(res float64) bool { return res < 0 })
	df = runningTotal(df, "ties", func(res float64) bool { return res == 0 })

	df = HashAbbrColumn(df, "team", "teamID")
	df, err = df.Select(cols(WeeklyTeamColumns)...)
	if err != nil {
		return nil, err
	}
	return df.Filter(func(r frame.Row) bool {
		return r.Get("week") != ""
	}), nil
}

// signedResult is pointsFor - pointsAgainst, null when either score is null
// (unplayed games).
func signedResult(r frame.Row) string {
	pf, ok1 := r.Float("pointsFor")
	pa, ok2 := r.Float("pointsAgainst")
	if !ok1 || !ok2 {
		return ""
	}
	return frame.FormatFloat(pf - pa)
}

// runningTotal appends col holding the cumulative count of rows matching
// the outcome predicate, grouped by (team, year) in current row order. Rows
// with a null result (unplayed games) never match and carry the total
// forward unchanged.
func runningTotal(df *frame.Frame, col string, match func(float64) bool) *frame.Frame {
	totals := make(map[string]int)
	return df.WithColumn(col, func(r frame.Row) string {
		key := r.Get("team") + "\x00" + r.Get("year")
		if res, ok := r.Float("result"); ok && match(res) {
			totals[key]++
		}
		return strconv.Itoa(totals[key])
	})
}

// BuildTeamMapping builds the team reference table: canonical abbreviation
// and name, nickname/city split, conference and division, one row per
// canonical abbreviation.
func BuildTeamMapping(pctx *Context, logger *slog.Logger) (*frame.Frame, error) {
	src := pctx.Teams
	if src.Len() == 0 {
		logger.Warn("no team data available")
		return frame.New(TeamMappingColumns), nil
	}

	base, err := src.Select(
		frame.C("team_abbr"),
		frame.C("team_name"),
		frame.As("team_conf", "conference"),
		frame.As("team_division", "division"),
	)
	if err != nil {
		return nil, err
	}
	base = NormalizeAbbr(base, "team_abbr")
	base = NormalizeName(base, "team_name")

	// Nickname is the last word of the full name, city is everything before
	// it; single-word names yield nulls for both.
	base = base.WithColumn("name", func(r frame.Row) string {
		_, nick := splitTeamName(r.Get("team_name"))
		return nick
	})
	base = base.WithColumn("city", func(r frame.Row) string {
		city, _ := splitTeamName(r.Get("team_name"))
		return city
	})

	base = base.Unique("team_abbr")

	labels := make([]string, 0, base.Len())
	for i := 0; i < base.Len(); i++ {
		labels = append(labels, base.Row(i).Get("team_abbr"))
	}
	if err := checkTeamIDCollisions(labels); err != nil {
		return nil, err
	}

	base = HashAbbrColumn(base, "team_abbr", "teamID")
	return base.Select(cols(TeamMappingColumns)...)
}

// splitTeamName splits a full team name into city and nickname.
func splitTeamName(full string) (city, nickname string) {
	i := strings.LastIndex(full, " ")
	if i < 0 {
		return "", ""
	}
	return full[:i], full[i+1:]
}
