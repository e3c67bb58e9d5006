package export

import (
	"log/slog"

	"github.com/gridstats/nfl-export/internal/frame"
)

// PlayerMappingColumns is the persisted column order of PlayerMapping.
var PlayerMappingColumns = []string{
	"playerID", "playerID_trade", "full_name", "first_name", "last_name", "birth_date",
}

// TradeColumns is the persisted column order of TradeTable.
var TradeColumns = []string{
	"trade_id", "season", "date", "team_gave", "team_received", "playerID",
}

// BuildPlayerMapping builds the player identity reference table from the
// crosswalk: primary identifier, the trade-provider identifier, and names.
// Players whose last season predates the export window are dropped; an
// unknown last season is kept.
func BuildPlayerMapping(pctx *Context, logger *slog.Logger) (*frame.Frame, error) {
	src := pctx.Players
	if src.Len() == 0 {
		logger.Warn("no player crosswalk available")
		return frame.New(PlayerMappingColumns), nil
	}

	active := src.Filter(func(r frame.Row) bool {
		last, ok := r.Int("last_season")
		return !ok || last >= int64(pctx.StartYear)
	})

	df, err := active.Select(
		frame.As("gsis_id", "playerID"),
		frame.As("pfr_id", "playerID_trade"),
		frame.As("display_name", "full_name"),
		frame.C("first_name"),
		frame.C("last_name"),
		frame.C("birth_date"),
	)
	if err != nil {
		return nil, err
	}
	return df.Unique("playerID"), nil
}

// BuildTradeTable builds the per-player trade rows: both team labels are
// normalized before hashing, so trades by relocated franchises map to the
// same teamID the stats tables use.
func BuildTradeTable(pctx *Context, logger *slog.Logger) (*frame.Frame, error) {
	src := pctx.Trades
	if src.Len() == 0 {
		logger.Warn("no trade data available")
		return frame.New(TradeColumns), nil
	}

	df, err := src.Select(
		frame.C("trade_id"),
		frame.C("season"),
		frame.As("trade_date", "date"),
		frame.C("gave"),
		frame.C("received"),
		frame.As("pfr_id", "playerID"),
	)
	if err != nil {
		return nil, err
	}
	df = HashAbbrColumn(df, "gave", "team_gave")
	df = HashAbbrColumn(df, "received", "team_received")

	return df.Select(cols(TradeColumns)...)
}
