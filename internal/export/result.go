package export

import "fmt"

// Result tracks counts and errors from an export run.
type Result struct {
	TablesWritten int
	RowsWritten   int
	Errors        []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the export run.
func (r *Result) Summary() string {
	return fmt.Sprintf("tables=%d rows=%d errors=%d",
		r.TablesWritten, r.RowsWritten, len(r.Errors))
}
