// Package export builds the nine normalized output tables from raw
// season-stats frames: team-identity normalization and surrogate-key
// hashing, cross-identifier-space joins, contract explosion, and per-table
// derivation. The clean pass in internal/clean is independent of this
// package and operates on the persisted files only.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gridstats/nfl-export/internal/config"
	"github.com/gridstats/nfl-export/internal/frame"
	"github.com/gridstats/nfl-export/internal/nflverse"
)

// Builder derives one output table from the raw frames.
type Builder func(*Context, *slog.Logger) (*frame.Frame, error)

// builds pairs each output table with its builder, in write order.
var builds = []struct {
	name  string
	build Builder
}{
	{config.WeeklyPlayerTable, BuildWeeklyPlayerData},
	{config.HistoricPlayerTable, BuildHistoricPlayerData},
	{config.WeeklyTeamTable, BuildWeeklyTeamData},
	{config.TeamMappingTable, BuildTeamMapping},
	{config.PlayerMappingTable, BuildPlayerMapping},
	{config.PlayerContractTable, BuildPlayerContracts},
	{config.InjuryTable, BuildInjuryData},
	{config.SnapCountTable, BuildSnapCounts},
	{config.TradeTable, BuildTradeTable},
}

// Exporter runs the full export flow: fetch all raw data kinds, then build
// and persist every output table.
type Exporter struct {
	cfg    *config.Config
	client *nflverse.Client
	logger *slog.Logger
}

// New creates an Exporter.
func New(cfg *config.Config, client *nflverse.Client, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{cfg: cfg, client: client, logger: logger}
}

// Run fetches the raw frames and builds all output tables. A fetch failure
// on a required data kind aborts the run; a failed table build is recorded
// and leaves that table's previous file untouched while the rest proceed.
func (e *Exporter) Run(ctx context.Context) (Result, error) {
	var result Result

	pctx, err := e.fetchAll(ctx)
	if err != nil {
		return result, err
	}

	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("create output dir: %w", err)
	}

	for _, b := range builds {
		df, err := b.build(pctx, e.logger)
		if err != nil {
			result.AddErrorf("build %s: %v", b.name, err)
			continue
		}
		path := filepath.Join(e.cfg.OutputDir, b.name+".csv")
		if err := df.WriteFile(path); err != nil {
			result.AddErrorf("write %s: %v", b.name, err)
			continue
		}
		e.logger.Info("table written", "table", b.name, "rows", df.Len(), "path", path)
		result.TablesWritten++
		result.RowsWritten += df.Len()
	}

	e.logger.Info("export complete", "summary", result.Summary())
	return result, nil
}

// fetchAll downloads every raw data kind for the configured seasons into a
// fresh pipeline context. All frames are fetched before any builder runs.
func (e *Exporter) fetchAll(ctx context.Context) (*Context, error) {
	seasons := e.cfg.Seasons()
	if len(seasons) == 0 {
		return nil, fmt.Errorf("invalid season range %d-%d", e.cfg.StartYear, e.cfg.EndYear)
	}
	e.logger.Info("fetching data", "start_year", e.cfg.StartYear, "end_year", e.cfg.EndYear)

	pctx := &Context{StartYear: e.cfg.StartYear}
	fetches := []struct {
		dataset nflverse.Dataset
		slot    **frame.Frame
	}{
		{nflverse.PlayerStats, &pctx.PlayerStats},
		{nflverse.Rosters, &pctx.Rosters},
		{nflverse.WeeklyRosters, &pctx.WeeklyRosters},
		{nflverse.Injuries, &pctx.Injuries},
		{nflverse.Contracts, &pctx.Contracts},
		{nflverse.SnapCounts, &pctx.SnapCounts},
		{nflverse.TeamStats, &pctx.TeamStats},
		{nflverse.Schedules, &pctx.Schedules},
		{nflverse.Teams, &pctx.Teams},
		{nflverse.Players, &pctx.Players},
		{nflverse.Trades, &pctx.Trades},
	}
	for _, f := range fetches {
		e.logger.Info("fetching dataset", "kind", f.dataset.Kind)
		df, err := e.client.Fetch(ctx, f.dataset, seasons)
		if err != nil {
			return nil, err
		}
		*f.slot = df
	}

	e.logger.Info("all data fetched")
	return pctx, nil
}
