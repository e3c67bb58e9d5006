package export

import (
	"log/slog"

	"github.com/gridstats/nfl-export/internal/frame"
)

// Crosswalk resolves player references held in a foreign identifier space
// to the primary (gsis) identifier, using the players crosswalk table.
type Crosswalk struct {
	players *frame.Frame
	logger  *slog.Logger
}

// NewCrosswalk creates a resolver over the players crosswalk frame.
func NewCrosswalk(players *frame.Frame, logger *slog.Logger) *Crosswalk {
	if logger == nil {
		logger = slog.Default()
	}
	return &Crosswalk{players: players, logger: logger}
}

// Resolve appends a playerID column to f in the primary identifier space,
// trying join paths in priority order: a direct primary-identifier column,
// the alternate roster identifier via the crosswalk, then an exact full-name
// match. Rows no path can map get a null playerID rather than failing the
// table. When no path exists at all, Resolve warns once for the table and
// returns ok=false.
func (c *Crosswalk) Resolve(f *frame.Frame, table, directCol, altCol, nameCol string) (*frame.Frame, bool) {
	if f.Has(directCol) {
		out := f.WithColumn("playerID", func(r frame.Row) string {
			return r.Get(directCol)
		})
		return out, true
	}

	if f.Has(altCol) && c.hasCrosswalk("pfr_id") {
		if out, err := c.joinVia(f, altCol, "pfr_id"); err == nil {
			return out, true
		}
	}

	if f.Has(nameCol) && c.hasCrosswalk("full_name") {
		if out, err := c.joinVia(f, nameCol, "full_name"); err == nil {
			return out, true
		}
	}

	c.logger.Warn("no join path to primary player identifiers", "table", table)
	return f, false
}

// hasCrosswalk reports whether the players frame can map fromCol to gsis_id.
func (c *Crosswalk) hasCrosswalk(fromCol string) bool {
	return c.players != nil && c.players.Len() > 0 &&
		c.players.Has(fromCol) && c.players.Has("gsis_id")
}

// joinVia left-joins f to the crosswalk on leftCol == rightCol and exposes
// the mapped gsis identifier as playerID; unmatched rows stay null.
func (c *Crosswalk) joinVia(f *frame.Frame, leftCol, rightCol string) (*frame.Frame, error) {
	mapping := c.players.Filter(func(r frame.Row) bool {
		return r.Get("gsis_id") != ""
	})
	joined, err := f.LeftJoin(mapping, leftCol, rightCol, "gsis_id")
	if err != nil {
		return nil, err
	}
	return joined.WithColumn("playerID", func(r frame.Row) string {
		return r.Get("gsis_id")
	}), nil
}
