package export

import (
	"log/slog"

	"github.com/gridstats/nfl-export/internal/frame"
)

// playerStatColumns are the raw stat counters carried by both player tables,
// in output order. Source column names match the upstream weekly stats
// frame, so they select without renames.
var playerStatColumns = []string{
	// Passing
	"completions", "attempts", "passing_yards", "passing_tds",
	"passing_interceptions", "sacks_suffered", "sack_yards_lost",
	// Rushing
	"carries", "rushing_yards", "rushing_tds", "rushing_fumbles",
	"rushing_fumbles_lost",
	// Receiving
	"receptions", "targets", "receiving_yards", "receiving_tds",
	"receiving_fumbles", "receiving_fumbles_lost",
	// Defense
	"def_tackles_solo", "def_tackles_with_assist", "def_tackle_assists",
	"def_tackles_for_loss", "def_sacks", "def_sack_yards", "def_qb_hits",
	"def_interceptions", "def_interception_yards", "def_pass_defended",
	"def_fumbles_forced", "def_fumbles", "def_tds",
	// Kicking
	"fg_made", "fg_att", "fg_pct", "pat_made", "pat_att",
	// Returns
	"kickoff_returns", "kickoff_return_yards", "punt_returns",
	"punt_return_yards",
}

// rateStatColumns average across weeks in yearly rollups; everything else
// sums.
var rateStatColumns = map[string]bool{
	"ppg":     true,
	"ppg_ppr": true,
	"fg_pct":  true,
}

// WeeklyPlayerColumns is the persisted column order of WeeklyPlayerData.
var WeeklyPlayerColumns = append(
	[]string{"playerID", "week", "year", "teamID", "position", "ppg", "ppg_ppr", "yards"},
	playerStatColumns...,
)

// HistoricPlayerColumns is the persisted column order of HistoricPlayerData.
var HistoricPlayerColumns = append(
	[]string{"playerID", "year", "teamID", "position", "ppg", "ppg_ppr", "yards"},
	playerStatColumns...,
)

// BuildWeeklyPlayerData shapes the raw weekly stats frame into the
// per-player-week table: rename key columns, derive total yards, normalize
// the team label and hash it into teamID.
func BuildWeeklyPlayerData(pctx *Context, logger *slog.Logger) (*frame.Frame, error) {
	src := pctx.PlayerStats
	if src.Len() == 0 {
		logger.Warn("no weekly player stats available")
		return frame.New(WeeklyPlayerColumns), nil
	}

	sel := []frame.Col{
		frame.As("player_id", "playerID"),
		frame.C("week"),
		frame.As("season", "year"),
		frame.C("team"),
		frame.C("position"),
		frame.As("fantasy_points", "ppg"),
		frame.As("fantasy_points_ppr", "ppg_ppr"),
	}
	for _, c := range playerStatColumns {
		sel = append(sel, frame.C(c))
	}
	df, err := src.Select(sel...)
	if err != nil {
		return nil, err
	}
	df = StandardizeKeys(df)
	df = df.WithColumn("yards", totalYards)
	df = HashAbbrColumn(df, "team", "teamID")

	return df.Select(cols(WeeklyPlayerColumns)...)
}

// BuildHistoricPlayerData rolls the weekly stats up to one row per
// (player, year, team, position): rate stats average, counters sum. A player
// who changed teams or positions mid-year keeps one row per combination.
func BuildHistoricPlayerData(pctx *Context, logger *slog.Logger) (*frame.Frame, error) {
	src := pctx.PlayerStats
	if src.Len() == 0 {
		logger.Warn("no weekly player stats available")
		return frame.New(HistoricPlayerColumns), nil
	}

	sel := []frame.Col{
		frame.As("player_id", "playerID"),
		frame.As("season", "year"),
		frame.C("team"),
		frame.C("position"),
		frame.As("fantasy_points", "ppg"),
		frame.As("fantasy_points_ppr", "ppg_ppr"),
	}
	for _, c := range playerStatColumns {
		sel = append(sel, frame.C(c))
	}
	df, err := src.Select(sel...)
	if err != nil {
		return nil, err
	}
	df = StandardizeKeys(df)
	df = df.WithColumn("yards", totalYards)

	aggs := []frame.Agg{
		{Col: "ppg", Op: frame.Mean},
		{Col: "ppg_ppr", Op: frame.Mean},
		{Col: "yards", Op: frame.Sum},
	}
	for _, c := range playerStatColumns {
		op := frame.Sum
		if rateStatColumns[c] {
			op = frame.Mean
		}
		aggs = append(aggs, frame.Agg{Col: c, Op: op})
	}
	df, err = df.GroupBy([]string{"playerID", "year", "team", "position"}, aggs)
	if err != nil {
		return nil, err
	}
	df = HashAbbrColumn(df, "team", "teamID")

	return df.Select(cols(HistoricPlayerColumns)...)
}

// totalYards derives combined yardage from the three yardage families,
// treating nulls as zero.
func totalYards(r frame.Row) string {
	var total float64
	for _, c := range []string{"passing_yards", "rushing_yards", "receiving_yards"} {
		if v, ok := r.Float(c); ok {
			total += v
		}
	}
	return frame.FormatFloat(total)
}

// cols turns plain column names into selections.
func cols(names []string) []frame.Col {
	out := make([]frame.Col, len(names))
	for i, n := range names {
		out[i] = frame.C(n)
	}
	return out
}
