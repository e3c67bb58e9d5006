// Package api serves a small read-only preview of the exported tables over
// HTTP, for eyeballing the output without loading it into a database.
package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gridstats/nfl-export/internal/config"
	"github.com/gridstats/nfl-export/internal/frame"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Handler serves the preview endpoints over the output directory.
type Handler struct {
	dir    string
	logger *slog.Logger
}

// NewHandler creates a Handler reading from the given output directory.
func NewHandler(dir string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{dir: dir, logger: logger}
}

// Root describes the service.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "nfl-export",
		"docs":    "/api/v1/tables",
	})
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTables lists the registered tables and whether each file exists.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	type tableInfo struct {
		Name    string   `json:"name"`
		Keys    []string `json:"keys"`
		Present bool     `json:"present"`
	}
	out := make([]tableInfo, 0, len(config.Tables))
	for _, t := range config.Tables {
		_, err := os.Stat(filepath.Join(h.dir, t.Name+".csv"))
		out = append(out, tableInfo{Name: t.Name, Keys: t.Keys, Present: err == nil})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": out})
}

// GetTable returns a page of rows from one table. Nulls come back as JSON
// null, numbers stay strings as persisted.
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "table")
	if !knownTable(name) {
		writeError(w, http.StatusNotFound, "unknown table: "+name)
		return
	}

	path := filepath.Join(h.dir, name+".csv")
	df, err := frame.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "table not exported: "+name)
			return
		}
		h.logger.Error("read table", "table", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read table")
		return
	}

	limit := queryInt(r, "limit", defaultLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	cols := df.Columns()
	rows := make([]map[string]any, 0, limit)
	for i := offset; i < df.Len() && len(rows) < limit; i++ {
		row := make(map[string]any, len(cols))
		for _, c := range cols {
			if v := df.Row(i).Get(c); v != "" {
				row[c] = v
			} else {
				row[c] = nil
			}
		}
		rows = append(rows, row)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"table":   name,
		"total":   df.Len(),
		"offset":  offset,
		"limit":   limit,
		"columns": cols,
		"rows":    rows,
	})
}

func knownTable(name string) bool {
	for _, t := range config.Tables {
		if t.Name == name {
			return true
		}
	}
	return false
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
