package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Common sentinel errors
var (
	ErrEmptyInput    = errors.New("input contains no data")
	ErrSkipBeyondEOF = errors.New("skip_rows exceeds line count")
	ErrNoColumns     = errors.New("no columns detected")
)

// Options controls CSV parsing. Files exported from spreadsheets and
// instruments often carry banner rows before the real header, so parsing is
// deliberately forgiving: variable field counts are allowed and the caller
// chooses how many leading lines to skip after seeing a raw preview.
type Options struct {
	SkipRows  int  // raw lines discarded before CSV parsing begins
	Delimiter rune // 0 means sniff from the first data line
	HasHeader bool
	MaxRows   int // 0 means unlimited
	TrimSpace bool
}

// DefaultOptions returns the options the interactive flow starts from.
func DefaultOptions() Options {
	return Options{
		HasHeader: true,
		TrimSpace: true,
	}
}

// Table is a parsed CSV dataset.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Preview returns up to n rows for display.
func (t *Table) Preview(n int) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// ColumnIndex returns the index of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell at (row, col index), or "" when the row is
// shorter than the header.
func (t *Table) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// ReadTable parses CSV data according to opts. Leading lines are skipped raw,
// before any CSV interpretation, so malformed banner rows cannot break the
// parse.
func ReadTable(r io.Reader, opts Options) (*Table, error) {
	br := bufio.NewReader(r)

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := readLine(br); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("skipping %d rows: %w", opts.SkipRows, ErrSkipBeyondEOF)
			}
			return nil, err
		}
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		peeked, _ := br.Peek(4096)
		delimiter = sniffDelimiter(peeked)
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.LazyQuotes = true

	var columns []string
	rows := make([][]string, 0)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}

		if opts.TrimSpace {
			for i := range record {
				record[i] = strings.TrimSpace(record[i])
			}
		}

		if columns == nil {
			if opts.HasHeader {
				columns = append([]string(nil), record...)
				continue
			}
			columns = make([]string, len(record))
			for i := range columns {
				columns[i] = fmt.Sprintf("column_%d", i+1)
			}
		}

		rows = append(rows, append([]string(nil), record...))
		if opts.MaxRows > 0 && len(rows) >= opts.MaxRows {
			break
		}
	}

	if columns == nil {
		return nil, ErrEmptyInput
	}
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// ReadTableBytes parses in-memory CSV data (the upload path).
func ReadTableBytes(data []byte, opts Options) (*Table, error) {
	return ReadTable(bytes.NewReader(data), opts)
}

// readLine consumes one line of arbitrary length.
func readLine(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return sb.String(), err
		}
		sb.Write(chunk)
		if !isPrefix {
			return sb.String(), nil
		}
	}
}

// sniffDelimiter picks the separator that splits the sample into the most
// fields. Comma wins ties.
func sniffDelimiter(sample []byte) rune {
	line := sample
	if idx := bytes.IndexByte(sample, '\n'); idx >= 0 {
		line = sample[:idx]
	}

	candidates := []rune{',', '\t', ';', '|'}
	best := ','
	bestCount := 0
	for _, c := range candidates {
		count := bytes.Count(line, []byte(string(c)))
		if count > bestCount {
			bestCount = count
			best = c
		}
	}
	return best
}
