package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	TextColumn     = "text"
	CategoryColumn = "category"
)

var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrEmpty          = errors.New("csv has no header row")
)

// Example is one labeled ticket.
type Example struct {
	Text     string
	Category string
}

// Table is a parsed CSV file with a header row.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable parses CSV with a header. Every row must have the header's width.
func ReadTable(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return &Table{Header: header, Rows: records[1:]}, nil
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// Values returns every value of the column at idx.
func (t *Table) Values(idx int) []string {
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// Records returns one map per row, keyed by header name.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]string, len(t.Header))
		for j, h := range t.Header {
			rec[h] = row[j]
		}
		out[i] = rec
	}
	return out
}

// ReadLabeled parses a training corpus with text and category columns.
func ReadLabeled(r io.Reader) ([]Example, error) {
	table, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	textIdx, okText := table.Column(TextColumn)
	catIdx, okCat := table.Column(CategoryColumn)
	if !okText || !okCat {
		return nil, fmt.Errorf("%w: CSV must contain 'text' and 'category' columns", ErrMissingColumns)
	}

	out := make([]Example, len(table.Rows))
	for i, row := range table.Rows {
		out[i] = Example{Text: row[textIdx], Category: row[catIdx]}
	}
	return out, nil
}

func ReadLabeledFile(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open training data: %w", err)
	}
	defer f.Close()
	return ReadLabeled(f)
}
