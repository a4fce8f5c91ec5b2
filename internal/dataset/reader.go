package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/justestif/go-spotify-listening-stats/internal/logging"
)

// Row is one data row keyed by column name.
type Row map[string]string

// Table is an untyped CSV file: its header and rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// Has reports whether the table has the named column.
func (t *Table) Has(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ReadOption configures ReadTable.
type ReadOption func(*readOptions)

type readOptions struct {
	log *logrus.Entry
}

// WithLogger sets the logger used to report missing files.
func WithLogger(l *logrus.Entry) ReadOption {
	return func(o *readOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// ReadTable loads a CSV file with a header row.
// A missing or zero-byte file yields an empty table and a logged warning.
func ReadTable(path string, opts ...ReadOption) (*Table, error) {
	o := readOptions{log: logging.Zone("dataset")}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		o.log.WithField("path", path).Warn("Data file not found, using empty table")
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		o.log.WithField("path", path).Warn("Data file is empty, using empty table")
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	table := &Table{Columns: header}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
