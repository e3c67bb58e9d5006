// Package clean enforces primary-key integrity on the persisted output
// tables. It reads only the CSV files in the output directory, never the
// upstream data, so it can run standalone against any prior export.
package clean

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gridstats/nfl-export/internal/config"
	"github.com/gridstats/nfl-export/internal/frame"
)

// Result summarizes a clean run.
type Result struct {
	TablesCleaned int // tables rewritten
	RowsRemoved   int
	Errors        []string
}

// AddErrorf records a non-fatal per-table error.
func (r *Result) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a one-line digest for logging.
func (r *Result) Summary() string {
	return fmt.Sprintf("tables_rewritten=%d rows_removed=%d errors=%d",
		r.TablesCleaned, r.RowsRemoved, len(r.Errors))
}

// Cleaner scrubs the output tables in a directory.
type Cleaner struct {
	dir    string
	logger *slog.Logger
}

// New creates a Cleaner for the given output directory.
func New(dir string, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{dir: dir, logger: logger}
}

// CleanAll scrubs every registered table: rows with a null primary-key cell
// are dropped, duplicate key tuples keep their first occurrence, and the
// file is rewritten only when rows were removed. PlayerContracts additionally
// gets its year-zero contract dates nulled and is always rewritten, since the
// date repair does not change the row count.
func (c *Cleaner) CleanAll() Result {
	var result Result
	for _, table := range config.Tables {
		if err := c.cleanTable(table, &result); err != nil {
			result.AddErrorf("clean %s: %v", table.Name, err)
		}
	}
	c.logger.Info("clean complete", "summary", result.Summary())
	return result
}

func (c *Cleaner) cleanTable(table config.Table, result *Result) error {
	path := filepath.Join(c.dir, table.Name+".csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		c.logger.Warn("table file missing, skipping", "table", table.Name, "path", path)
		return nil
	}

	df, err := frame.ReadFile(path)
	if err != nil {
		return err
	}

	rewrite := false
	if table.Name == config.PlayerContractTable {
		df = repairContractDates(df)
		rewrite = true
	}

	for _, k := range table.Keys {
		if !df.Has(k) {
			c.logger.Warn("key column missing, skipping", "table", table.Name, "column", k)
			return nil
		}
	}

	before := df.Len()
	df = df.Filter(func(r frame.Row) bool {
		for _, k := range table.Keys {
			if r.Get(k) == "" {
				return false
			}
		}
		return true
	})
	df = df.Unique(table.Keys...)
	removed := before - df.Len()

	if removed == 0 && !rewrite {
		c.logger.Info("table already clean", "table", table.Name, "rows", before)
		return nil
	}

	if err := df.WriteFile(path); err != nil {
		return err
	}
	c.logger.Info("table cleaned",
		"table", table.Name, "rows_removed", removed, "rows", df.Len())
	result.TablesCleaned++
	result.RowsRemoved += removed
	return nil
}

// repairContractDates nulls contract dates that fell in year zero. The
// explosion derives dates from year_signed, and a zero signing year yields a
// "0000-..." date that PostgreSQL rejects.
func repairContractDates(df *frame.Frame) *frame.Frame {
	for _, col := range []string{"contractCreateDate", "contractExpireDate"} {
		if !df.Has(col) {
			continue
		}
		name := col
		df = df.WithColumn(name, func(r frame.Row) string {
			v := r.Get(name)
			if strings.HasPrefix(v, "0000") {
				return ""
			}
			return v
		})
	}
	return df
}
