package nflverse

// Dataset describes one upstream data kind: where its release asset lives
// and how fetch failures degrade.
type Dataset struct {
	Kind string
	// Path is the asset path under the release base URL. Seasonal datasets
	// substitute the season year for %d.
	Path     string
	Seasonal bool
	// MinYear is the first season the dataset exists for; earlier seasons
	// are skipped rather than fetched. Zero means no floor.
	MinYear int
	// PerSeasonFallback degrades a failed season to a warning instead of
	// aborting the run; an all-season failure yields an empty frame.
	PerSeasonFallback bool
	// Optional datasets yield an empty frame with a warning on fetch
	// failure instead of aborting the run.
	Optional bool
}

// Datasets the export run fetches, keyed by kind.
var (
	PlayerStats   = Dataset{Kind: "player_stats", Path: "player_stats/stats_player_week_%d.csv", Seasonal: true}
	Rosters       = Dataset{Kind: "rosters", Path: "rosters/roster_%d.csv", Seasonal: true}
	WeeklyRosters = Dataset{Kind: "rosters_weekly", Path: "weekly_rosters/roster_weekly_%d.csv", Seasonal: true}
	Injuries      = Dataset{Kind: "injuries", Path: "injuries/injuries_%d.csv", Seasonal: true, MinYear: 2009, PerSeasonFallback: true}
	Contracts     = Dataset{Kind: "contracts", Path: "contracts/historical_contracts.csv", Optional: true}
	SnapCounts    = Dataset{Kind: "snap_counts", Path: "snap_counts/snap_counts_%d.csv", Seasonal: true, MinYear: 2012, PerSeasonFallback: true}
	TeamStats     = Dataset{Kind: "team_stats", Path: "player_stats/stats_team_week_%d.csv", Seasonal: true}
	Schedules     = Dataset{Kind: "schedules", Path: "schedules/games.csv"}
	Teams         = Dataset{Kind: "teams", Path: "teams/teams.csv"}
	Players       = Dataset{Kind: "players", Path: "players/players.csv", Optional: true}
	Trades        = Dataset{Kind: "trades", Path: "trades/trades.csv"}
)
