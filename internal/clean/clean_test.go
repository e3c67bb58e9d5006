package clean

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridstats/nfl-export/internal/config"
	"github.com/gridstats/nfl-export/internal/frame"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTable(t *testing.T, dir, name string, cols []string, rows ...[]string) string {
	t.Helper()
	f := frame.New(cols)
	for _, r := range rows {
		f.Append(r)
	}
	path := filepath.Join(dir, name+".csv")
	if err := f.WriteFile(path); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func readTable(t *testing.T, path string) *frame.Frame {
	t.Helper()
	f, err := frame.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return f
}

func TestCleanDropsNullKeysAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, config.InjuryTable,
		[]string{"playerID", "week", "year", "injuryStatus"},
		[]string{"00-001", "1", "2020", "Questionable"},
		[]string{"00-001", "1", "2020", "Out"},
		[]string{"", "2", "2020", "Out"},
		[]string{"00-002", "", "2020", "Out"},
		[]string{"00-002", "3", "2020", "Doubtful"},
	)

	result := New(dir, discardLogger()).CleanAll()
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if result.RowsRemoved != 3 {
		t.Errorf("rows removed = %d, want 3", result.RowsRemoved)
	}

	got := readTable(t, path)
	if got.Len() != 2 {
		t.Fatalf("rows = %d, want 2", got.Len())
	}
	if v := got.Row(0).Get("injuryStatus"); v != "Questionable" {
		t.Errorf("kept duplicate = %q, want the first occurrence", v)
	}
}

func TestCleanRepairsContractSentinelDates(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, config.PlayerContractTable,
		[]string{"playerID", "year", "contractSalary", "contractCreateDate", "contractExpireDate", "year_signed", "contract_years"},
		[]string{"00-001", "2020", "10", "2020-03-01", "2022-03-01", "2020", "2"},
		[]string{"00-002", "0", "5", "0000-03-01", "0001-03-01", "0", "1"},
	)

	result := New(dir, discardLogger()).CleanAll()
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}

	got := readTable(t, path)
	if v := got.Row(0).Get("contractCreateDate"); v != "2020-03-01" {
		t.Errorf("valid date changed to %q", v)
	}
	if v := got.Row(1).Get("contractCreateDate"); v != "" {
		t.Errorf("sentinel create date = %q, want null", v)
	}
	// Only dates starting with 0000 are repaired.
	if v := got.Row(1).Get("contractExpireDate"); v != "0001-03-01" {
		t.Errorf("expire date = %q, want 0001-03-01 untouched", v)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, config.WeeklyPlayerTable,
		[]string{"playerID", "week", "year", "ppg"},
		[]string{"00-001", "1", "2020", "12"},
		[]string{"00-001", "1", "2020", "12"},
	)

	first := New(dir, discardLogger()).CleanAll()
	if first.RowsRemoved != 1 {
		t.Fatalf("first pass removed %d rows, want 1", first.RowsRemoved)
	}
	second := New(dir, discardLogger()).CleanAll()
	if second.RowsRemoved != 0 {
		t.Errorf("second pass removed %d rows, want 0", second.RowsRemoved)
	}
}

func TestCleanSkipsMissingFilesAndColumns(t *testing.T) {
	dir := t.TempDir()
	// A table file missing one of its key columns is left alone.
	path := writeTable(t, dir, config.TradeTable,
		[]string{"trade_id", "season"},
		[]string{"t1", "2018"},
		[]string{"t1", "2018"},
	)

	result := New(dir, discardLogger()).CleanAll()
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if got := readTable(t, path); got.Len() != 2 {
		t.Errorf("rows = %d, want 2 (table without key columns untouched)", got.Len())
	}
	// No other table files exist; the run must not create any.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("files in dir = %d, want 1", len(entries))
	}
}
