package engagement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Column names read from the engagement CSV file.
const (
	ColumnDate     = "date"
	ColumnSymbol   = "symbol"
	ColumnLikes    = "twitterLikes"
	ColumnComments = "twitterComments"
)

// Record is one row of social engagement metrics for a symbol on a date.
type Record struct {
	Date     Date
	Symbol   string
	Likes    float64
	Comments float64
	// Extra holds the other columns of the input row, by header name.
	Extra map[string]string
}

// Ratio returns the engagement ratio, comments per like.
//
// It is NaN when there are no likes.
func (r Record) Ratio() float64 {
	if r.Likes == 0 {
		return math.NaN()
	}
	return r.Comments / r.Likes
}

// ReadRecords decodes engagement records from a CSV stream with a header row.
//
// The header must contain the date, symbol, twitterLikes and twitterComments columns, in any order.
// Empty numeric cells are read as NaN, which never pass the engagement thresholds.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty engagement file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{ColumnDate, ColumnSymbol, ColumnLikes, ColumnComments} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing column %q in header %v", required, header)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := decodeRecord(columns, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
}

func decodeRecord(columns map[string]int, row []string) (rec Record, err error) {
	cell := func(name string) string {
		i := columns[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	if rec.Date, err = ParseDate(cell(ColumnDate)); err != nil {
		return rec, err
	}
	if rec.Symbol = cell(ColumnSymbol); rec.Symbol == "" {
		return rec, fmt.Errorf("empty %s", ColumnSymbol)
	}
	if rec.Likes, err = parseCount(cell(ColumnLikes)); err != nil {
		return rec, fmt.Errorf("invalid %s: %w", ColumnLikes, err)
	}
	if rec.Comments, err = parseCount(cell(ColumnComments)); err != nil {
		return rec, fmt.Errorf("invalid %s: %w", ColumnComments, err)
	}

	for name, i := range columns {
		switch name {
		case ColumnDate, ColumnSymbol, ColumnLikes, ColumnComments:
			continue
		}
		if i < len(row) {
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[name] = row[i]
		}
	}
	return rec, nil
}

// parseCount reads a numeric cell; an empty cell is a missing value.
func parseCount(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
