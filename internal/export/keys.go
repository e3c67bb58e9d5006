package export

import (
	"strconv"

	"github.com/gridstats/nfl-export/internal/frame"
)

// StandardizeKeys coerces the key columns every table shares to their
// canonical types: playerID stays a string (cells already are), and week and
// year are re-rendered as 32-bit integers, so float-formatted values like
// "18.0" become "18". Columns that are absent are skipped, and applying the
// function twice yields the same result as once.
func StandardizeKeys(f *frame.Frame) *frame.Frame {
	for _, col := range []string{"week", "year"} {
		if !f.Has(col) {
			continue
		}
		col := col
		f = f.WithColumn(col, func(r frame.Row) string {
			v, ok := r.Int(col)
			if !ok {
				return ""
			}
			return strconv.FormatInt(int64(int32(v)), 10)
		})
	}
	return f
}
