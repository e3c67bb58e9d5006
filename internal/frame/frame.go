// Package frame provides the in-memory table the pipeline transforms: ordered
// columns and rows of string cells, where the empty string is null. This
// mirrors the persisted CSV contract (empty string = null), so values round
// trip between files and frames without a separate null representation.
package frame

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Frame is a column-ordered table of nullable string cells.
type Frame struct {
	cols []string
	idx  map[string]int
	rows [][]string
}

// New creates an empty frame with the given column order.
func New(cols []string) *Frame {
	f := &Frame{
		cols: append([]string(nil), cols...),
		idx:  make(map[string]int, len(cols)),
	}
	for i, c := range f.cols {
		f.idx[c] = i
	}
	return f
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.cols...)
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.rows) }

// Has reports whether the frame has a column with the given name.
func (f *Frame) Has(col string) bool {
	_, ok := f.idx[col]
	return ok
}

// Append adds a row, padding or truncating to the column count. Short rows
// are null-filled; extra cells (ragged trailing commas) are dropped.
func (f *Frame) Append(row []string) {
	n := len(f.cols)
	r := make([]string, n)
	copy(r, row)
	f.rows = append(f.rows, r)
}

// Row returns an accessor for row i.
func (f *Frame) Row(i int) Row { return Row{f: f, i: i} }

// Row is a view over one frame row.
type Row struct {
	f *Frame
	i int
}

// Get returns the cell value for col, or "" (null) if the column is absent.
func (r Row) Get(col string) string {
	j, ok := r.f.idx[col]
	if !ok {
		return ""
	}
	return r.f.rows[r.i][j]
}

// Float parses the cell as a float; ok is false for null or non-numeric.
func (r Row) Float(col string) (float64, bool) {
	s := r.Get(col)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int parses the cell as an integer, accepting float renderings like "18.0".
func (r Row) Int(col string) (int64, bool) {
	v, ok := r.Float(col)
	if !ok {
		return 0, false
	}
	return int64(v), true
}

// Col is a column selection, optionally renamed.
type Col struct {
	Name string
	As   string
}

// C selects a column under its own name.
func C(name string) Col { return Col{Name: name} }

// As selects a column under a new name.
func As(name, alias string) Col { return Col{Name: name, As: alias} }

func (c Col) out() string {
	if c.As != "" {
		return c.As
	}
	return c.Name
}

// Select builds a new frame from the given columns in order. A selected
// column missing from the source is an error; renames apply via Col.As.
func (f *Frame) Select(cols ...Col) (*Frame, error) {
	src := make([]int, len(cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		j, ok := f.idx[c.Name]
		if !ok {
			return nil, fmt.Errorf("select: column %q not found", c.Name)
		}
		src[i] = j
		names[i] = c.out()
	}
	out := New(names)
	out.rows = make([][]string, 0, len(f.rows))
	for _, row := range f.rows {
		r := make([]string, len(src))
		for i, j := range src {
			r[i] = row[j]
		}
		out.rows = append(out.rows, r)
	}
	return out, nil
}

// WithColumn returns a frame with col set per row to fn(row). An existing
// column is replaced in place; a new one is appended.
func (f *Frame) WithColumn(col string, fn func(Row) string) *Frame {
	out := New(f.cols)
	j, exists := f.idx[col]
	if !exists {
		out = New(append(f.Columns(), col))
		j = len(out.cols) - 1
	}
	out.rows = make([][]string, 0, len(f.rows))
	for i := range f.rows {
		r := make([]string, len(out.cols))
		copy(r, f.rows[i])
		r[j] = fn(f.Row(i))
		out.rows = append(out.rows, r)
	}
	return out
}

// Filter returns the rows for which keep is true, preserving order.
func (f *Frame) Filter(keep func(Row) bool) *Frame {
	out := New(f.cols)
	for i := range f.rows {
		if keep(f.Row(i)) {
			out.rows = append(out.rows, f.rows[i])
		}
	}
	return out
}

// Sort orders rows by the given columns ascending, nulls first. Values that
// parse as numbers on both sides compare numerically, otherwise as strings.
// The sort is stable.
func (f *Frame) Sort(cols ...string) {
	js := make([]int, 0, len(cols))
	for _, c := range cols {
		if j, ok := f.idx[c]; ok {
			js = append(js, j)
		}
	}
	sort.SliceStable(f.rows, func(a, b int) bool {
		for _, j := range js {
			if c := compareCells(f.rows[a][j], f.rows[b][j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func compareCells(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}
	fa, ea := strconv.ParseFloat(a, 64)
	fb, eb := strconv.ParseFloat(b, 64)
	if ea == nil && eb == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// Unique drops rows whose key tuple duplicates an earlier row; the first
// occurrence in row order wins.
func (f *Frame) Unique(keys ...string) *Frame {
	seen := make(map[string]struct{}, len(f.rows))
	return f.Filter(func(r Row) bool {
		k := keyOf(r, keys)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

func keyOf(r Row, keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = r.Get(k)
	}
	return strings.Join(parts, "\x00")
}

// Concat stacks frames vertically by column name. The output carries the
// union of all columns in first-seen order; cells for columns a frame lacks
// are null.
func Concat(frames ...*Frame) *Frame {
	var cols []string
	seen := map[string]struct{}{}
	for _, f := range frames {
		for _, c := range f.cols {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				cols = append(cols, c)
			}
		}
	}
	out := New(cols)
	for _, f := range frames {
		for i := range f.rows {
			r := make([]string, len(cols))
			for j, c := range cols {
				if sj, ok := f.idx[c]; ok {
					r[j] = f.rows[i][sj]
				}
			}
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// LeftJoin matches rows on leftOn == rightOn and copies the named columns
// from the right frame; unmatched rows get nulls. Null keys never match.
// Duplicate right keys keep the first occurrence.
func (f *Frame) LeftJoin(right *Frame, leftOn, rightOn string, take ...string) (*Frame, error) {
	return f.join(right, leftOn, rightOn, take, false)
}

// InnerJoin is LeftJoin but drops unmatched rows.
func (f *Frame) InnerJoin(right *Frame, leftOn, rightOn string, take ...string) (*Frame, error) {
	return f.join(right, leftOn, rightOn, take, true)
}

func (f *Frame) join(right *Frame, leftOn, rightOn string, take []string, inner bool) (*Frame, error) {
	lj, ok := f.idx[leftOn]
	if !ok {
		return nil, fmt.Errorf("join: left column %q not found", leftOn)
	}
	rj, ok := right.idx[rightOn]
	if !ok {
		return nil, fmt.Errorf("join: right column %q not found", rightOn)
	}
	tj := make([]int, len(take))
	for i, c := range take {
		j, ok := right.idx[c]
		if !ok {
			return nil, fmt.Errorf("join: right column %q not found", c)
		}
		tj[i] = j
	}

	lookup := make(map[string][]string, right.Len())
	for _, row := range right.rows {
		key := row[rj]
		if key == "" {
			continue
		}
		if _, dup := lookup[key]; dup {
			continue
		}
		vals := make([]string, len(tj))
		for i, j := range tj {
			vals[i] = row[j]
		}
		lookup[key] = vals
	}

	out := New(append(f.Columns(), take...))
	for _, row := range f.rows {
		vals, matched := lookup[row[lj]]
		if !matched {
			if inner {
				continue
			}
			vals = make([]string, len(take))
		}
		r := make([]string, 0, len(out.cols))
		r = append(r, row...)
		r = append(r, vals...)
		out.rows = append(out.rows, r)
	}
	return out, nil
}

// AggOp selects the aggregation applied to a column within each group.
type AggOp int

const (
	// Sum adds non-null values; a group with no values sums to 0.
	Sum AggOp = iota
	// Mean averages non-null values; a group with no values is null.
	Mean
)

// Agg pairs a column with its aggregation.
type Agg struct {
	Col string
	Op  AggOp
}

// GroupBy aggregates rows sharing a key tuple. Output columns are the keys
// followed by the aggregated columns, groups in first-occurrence order.
// Non-numeric cells count as null.
func (f *Frame) GroupBy(keys []string, aggs []Agg) (*Frame, error) {
	for _, k := range keys {
		if !f.Has(k) {
			return nil, fmt.Errorf("group by: column %q not found", k)
		}
	}
	for _, a := range aggs {
		if !f.Has(a.Col) {
			return nil, fmt.Errorf("group by: column %q not found", a.Col)
		}
	}

	type group struct {
		keyVals []string
		sums    []float64
		counts  []int
	}
	var order []string
	groups := make(map[string]*group)

	for i := range f.rows {
		row := f.Row(i)
		k := keyOf(row, keys)
		g, ok := groups[k]
		if !ok {
			kv := make([]string, len(keys))
			for j, c := range keys {
				kv[j] = row.Get(c)
			}
			g = &group{keyVals: kv, sums: make([]float64, len(aggs)), counts: make([]int, len(aggs))}
			groups[k] = g
			order = append(order, k)
		}
		for j, a := range aggs {
			if v, ok := row.Float(a.Col); ok {
				g.sums[j] += v
				g.counts[j]++
			}
		}
	}

	cols := append([]string(nil), keys...)
	for _, a := range aggs {
		cols = append(cols, a.Col)
	}
	out := New(cols)
	for _, k := range order {
		g := groups[k]
		r := append([]string(nil), g.keyVals...)
		for j, a := range aggs {
			switch {
			case a.Op == Mean && g.counts[j] == 0:
				r = append(r, "")
			case a.Op == Mean:
				r = append(r, FormatFloat(g.sums[j]/float64(g.counts[j])))
			default:
				r = append(r, FormatFloat(g.sums[j]))
			}
		}
		out.rows = append(out.rows, r)
	}
	return out, nil
}

// FormatFloat renders a float with the fewest digits that round trip,
// so integral values come out without a decimal point.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
