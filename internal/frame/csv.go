package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// nullSentinels are input values read back as null, matching how the export
// consumers interpret the files.
var nullSentinels = map[string]struct{}{
	"":     {},
	"NA":   {},
	"NaN":  {},
	"null": {},
	"NULL": {},
}

// Read parses comma-delimited data with a header row. Null sentinels become
// null cells, and ragged lines (trailing commas, short rows) are tolerated.
func Read(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	f := New(hdr)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		for i, v := range rec {
			if _, isNull := nullSentinels[v]; isNull {
				rec[i] = ""
			}
		}
		f.Append(rec)
	}
	return f, nil
}

// ReadFile reads a CSV file into a frame.
func ReadFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// Write emits the frame as comma-delimited data with a header row; null
// cells are written as empty strings.
func (f *Frame) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range f.rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the frame to path, replacing any existing file.
func (f *Frame) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
