// Package config provides centralized configuration loaded from environment
// variables, plus the output-table registry shared by the export, clean, and
// load pipelines.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Output table registry — single source of truth for file names and the
// primary-key columns the clean pass enforces.
// --------------------------------------------------------------------------

const (
	WeeklyPlayerTable   = "WeeklyPlayerData"
	HistoricPlayerTable = "HistoricPlayerData"
	WeeklyTeamTable     = "WeeklyTeamData"
	TeamMappingTable    = "TeamMapping"
	PlayerMappingTable  = "PlayerMapping"
	PlayerContractTable = "PlayerContracts"
	InjuryTable         = "InjuryData"
	SnapCountTable      = "SnapCounts"
	TradeTable          = "TradeTable"
)

// Table describes one persisted output table.
type Table struct {
	Name string   // file base name; the CSV is <output>/<Name>.csv
	Keys []string // primary-key columns; unique and non-null after clean
}

// Tables lists every output table in clean-pass order.
var Tables = []Table{
	{Name: PlayerMappingTable, Keys: []string{"playerID"}},
	{Name: TeamMappingTable, Keys: []string{"teamID"}},
	{Name: WeeklyPlayerTable, Keys: []string{"playerID", "week", "year"}},
	{Name: HistoricPlayerTable, Keys: []string{"playerID", "year", "teamID"}},
	{Name: WeeklyTeamTable, Keys: []string{"teamID", "week", "year"}},
	{Name: PlayerContractTable, Keys: []string{"playerID", "year", "year_signed"}},
	{Name: InjuryTable, Keys: []string{"playerID", "week", "year"}},
	{Name: SnapCountTable, Keys: []string{"playerID", "week", "year"}},
	{Name: TradeTable, Keys: []string{"trade_id", "playerID"}},
}

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Export run
	OutputDir string
	StartYear int
	EndYear   int

	// Upstream provider
	NflverseBaseURL   string
	HTTPTimeout       time.Duration
	RateLimitRequests int // requests per minute

	// Database (load command)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Preview API (serve command)
	APIHost          string
	APIPort          int
	CORSAllowOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// DATABASE_URL is only required by the load command, which checks it itself.
func Load() (*Config, error) {
	return &Config{
		OutputDir: envOr("OUTPUT_DIR", "output"),
		StartYear: envInt("START_YEAR", 2015),
		EndYear:   envInt("END_YEAR", 2025),

		NflverseBaseURL:   envOr("NFLVERSE_BASE_URL", "https://github.com/nflverse/nflverse-data/releases/download"),
		HTTPTimeout:       time.Duration(envInt("HTTP_TIMEOUT_SECONDS", 60)) * time.Second,
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost: envOr("API_HOST", "0.0.0.0"),
		APIPort: envInt("API_PORT", envInt("PORT", 8000)),
		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),
	}, nil
}

// Seasons returns the inclusive season range of the export run.
func (c *Config) Seasons() []int {
	if c.EndYear < c.StartYear {
		return nil
	}
	seasons := make([]int, 0, c.EndYear-c.StartYear+1)
	for y := c.StartYear; y <= c.EndYear; y++ {
		seasons = append(seasons, y)
	}
	return seasons
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
