// Package pgload bulk-loads the exported CSV tables into PostgreSQL. Tables
// are created on first load and truncated before each copy, so a load run is
// a full refresh of whatever files exist in the output directory.
package pgload

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridstats/nfl-export/internal/config"
	"github.com/gridstats/nfl-export/internal/frame"
)

// Loader copies output tables into a PostgreSQL database.
type Loader struct {
	pool   *pgxpool.Pool
	dir    string
	logger *slog.Logger
}

// New connects a pool with the configured limits and validates it with a
// ping.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Loader, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for load")
	}
	if logger == nil {
		logger = slog.Default()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Loader{pool: pool, dir: cfg.OutputDir, logger: logger}, nil
}

// Close releases the connection pool.
func (l *Loader) Close() { l.pool.Close() }

// LoadAll loads every registered table whose CSV file exists. Each table is
// created if missing, truncated, and refilled with COPY.
func (l *Loader) LoadAll(ctx context.Context) error {
	for _, table := range config.Tables {
		if err := l.loadTable(ctx, table); err != nil {
			return fmt.Errorf("load %s: %w", table.Name, err)
		}
	}
	return nil
}

func (l *Loader) loadTable(ctx context.Context, table config.Table) error {
	path := filepath.Join(l.dir, table.Name+".csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		l.logger.Warn("table file missing, skipping", "table", table.Name, "path", path)
		return nil
	}

	df, err := frame.ReadFile(path)
	if err != nil {
		return err
	}
	cols := df.Columns()
	if len(cols) == 0 {
		l.logger.Warn("table file has no columns, skipping", "table", table.Name)
		return nil
	}

	sqlName := snakeCase(table.Name)
	if _, err := l.pool.Exec(ctx, createTableSQL(sqlName, cols)); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := l.pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %q", sqlName)); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	rows := make([][]any, 0, df.Len())
	for i := 0; i < df.Len(); i++ {
		row := make([]any, len(cols))
		for j, col := range cols {
			v, err := sqlValue(col, df.Row(i).Get(col))
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", i, col, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	n, err := l.pool.CopyFrom(ctx, pgx.Identifier{sqlName}, cols, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	l.logger.Info("table loaded", "table", sqlName, "rows", n)
	return nil
}

// createTableSQL builds the DDL for a table, quoting the mixed-case CSV
// column names as-is.
func createTableSQL(name string, cols []string) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%q %s", c, sqlType(c))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", name, strings.Join(defs, ", "))
}

// Column kinds by name. Surrogate team identifiers are unsigned 64-bit
// hashes, which overflow bigint, so they get NUMERIC(20,0).
var (
	textColumns = map[string]bool{
		"playerID": true, "playerID_trade": true, "trade_id": true,
		"full_name": true, "first_name": true, "last_name": true,
		"position": true, "name": true, "city": true,
		"conference": true, "division": true,
		"injuryStatus": true, "primaryInjury": true, "practiceStatus": true,
	}
	dateColumns = map[string]bool{
		"birth_date": true, "date": true,
		"contractCreateDate": true, "contractExpireDate": true,
	}
	intColumns = map[string]bool{
		"week": true, "year": true, "season": true,
		"year_signed": true, "contract_years": true,
		"wins": true, "losses": true, "ties": true,
		"pointsFor": true, "pointsAgainst": true,
	}
	teamIDColumns = map[string]bool{
		"teamID": true, "team_gave": true, "team_received": true,
	}
)

func sqlType(col string) string {
	switch {
	case textColumns[col]:
		return "text"
	case dateColumns[col]:
		return "date"
	case intColumns[col]:
		return "integer"
	case teamIDColumns[col]:
		return "NUMERIC(20,0)"
	default:
		return "double precision"
	}
}

// sqlValue converts a CSV cell to the driver value for its column kind.
// Empty cells load as NULL.
func sqlValue(col, cell string) (any, error) {
	if cell == "" {
		return nil, nil
	}
	switch {
	case textColumns[col] || dateColumns[col]:
		return cell, nil
	case intColumns[col]:
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("parse integer %q: %w", cell, err)
		}
		return int64(f), nil
	case teamIDColumns[col]:
		n, ok := new(big.Int).SetString(cell, 10)
		if !ok {
			return nil, fmt.Errorf("parse team identifier %q", cell)
		}
		return pgtype.Numeric{Int: n, Valid: true}, nil
	default:
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("parse float %q: %w", cell, err)
		}
		return f, nil
	}
}

// snakeCase converts a CamelCase table name to its SQL identifier.
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && name[i-1] >= 'a' && name[i-1] <= 'z' {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
