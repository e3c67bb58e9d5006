package export

import (
	"log/slog"

	"github.com/gridstats/nfl-export/internal/frame"
)

// ContractColumns is the persisted column order of PlayerContracts.
var ContractColumns = []string{
	"playerID", "year", "contractSalary",
	"contractCreateDate", "contractExpireDate",
	"year_signed", "contract_years",
}

// InjuryColumns is the persisted column order of InjuryData.
var InjuryColumns = []string{
	"playerID", "week", "year", "injuryStatus", "primaryInjury", "practiceStatus",
}

// SnapCountColumns is the persisted column order of SnapCounts.
var SnapCountColumns = []string{
	"playerID", "week", "year", "offenseSnaps", "offensePct", "defenseSnaps", "defensePct",
}

// BuildPlayerContracts explodes contracts into per-year rows and resolves
// the contract provider's identifier space to the primary player identifier
// via the crosswalk; contracts without a crosswalk entry are dropped.
func BuildPlayerContracts(pctx *Context, logger *slog.Logger) (*frame.Frame, error) {
	if pctx.Contracts.Len() == 0 || pctx.Players.Len() == 0 {
		logger.Warn("no contract data or player crosswalk available")
		return frame.New(ContractColumns), nil
	}

	otcMap, err := pctx.Players.Filter(func(r frame.Row) bool {
		return r.Get("otc_id") != ""
	}).Select(
		frame.As("gsis_id", "playerID"),
		frame.C("otc_id"),
	)
	if err != nil {
		return nil, err
	}

	byYear := ExplodeContracts(pctx.Contracts)
	if byYear.Len() == 0 {
		logger.Warn("no contract data available after explosion")
		return frame.New(ContractColumns), nil
	}

	joined, err := byYear.InnerJoin(otcMap, "otc_id", "otc_id", "playerID")
	if err != nil {
		return nil, err
	}

	return joined.Select(
		frame.C("playerID"),
		frame.C("year"),
		frame.C("contractSalary"),
		frame.C("contractCreateDate"),
		frame.C("contractExpireDate"),
		frame.C("year_signed"),
		frame.As("years", "contract_years"),
	)
}

// BuildInjuryData shapes weekly injury reports into the 3NF injury table.
func BuildInjuryData(pctx *Context, logger *slog.Logger) (*frame.Frame, error) {
	src := pctx.Injuries
	if src.Len() == 0 {
		logger.Warn("no injury data available")
		return frame.New(InjuryColumns), nil
	}

	df, err := src.Select(
		frame.As("gsis_id", "playerID"),
		frame.C("week"),
		frame.As("season", "year"),
		frame.As("report_status", "injuryStatus"),
		frame.As("report_primary_injury", "primaryInjury"),
		frame.As("practice_status", "practiceStatus"),
	)
	if err != nil {
		return nil, err
	}
	df = StandardizeKeys(df)
	df = dropNullKeys(df)
	return df.Unique("playerID", "week", "year"), nil
}

// BuildSnapCounts shapes snap counts into the 3NF snap table, resolving the
// source's identifier space to the primary player identifier via the
// crosswalk (the snaps feed carries pfr ids, not gsis ids).
func BuildSnapCounts(pctx *Context, logger *slog.Logger) (*frame.Frame, error) {
	src := pctx.SnapCounts
	if src.Len() == 0 {
		logger.Warn("no snap count data available")
		return frame.New(SnapCountColumns), nil
	}

	crosswalk := NewCrosswalk(pctx.Players, logger)
	mapped, ok := crosswalk.Resolve(src, "SnapCounts", "gsis_id", "pfr_player_id", "player")
	if !ok {
		return frame.New(SnapCountColumns), nil
	}

	df, err := mapped.Select(
		frame.C("playerID"),
		frame.C("week"),
		frame.As("season", "year"),
		frame.As("offense_snaps", "offenseSnaps"),
		frame.As("offense_pct", "offensePct"),
		frame.As("defense_snaps", "defenseSnaps"),
		frame.As("defense_pct", "defensePct"),
	)
	if err != nil {
		return nil, err
	}
	df = StandardizeKeys(df)
	df = dropNullKeys(df)
	return df.Unique("playerID", "week", "year"), nil
}

// dropNullKeys removes rows missing any of the (playerID, week, year) keys.
func dropNullKeys(df *frame.Frame) *frame.Frame {
	return df.Filter(func(r frame.Row) bool {
		return r.Get("playerID") != "" && r.Get("week") != "" && r.Get("year") != ""
	})
}
