// Package ingest parses the semicolon-delimited consumption export that
// Spanish distributors offer for download: one row per metered hour.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/polhenarejos/factura-luz/pkg/types"
)

// Column layout of the export. The first column (supply point identifier) is
// ignored; extra trailing columns are tolerated.
const (
	colDate = 1
	colHour = 2
	colKWh  = 3

	minColumns = 4
)

// ReadRecords parses the export from r. The first row is a header and is
// skipped. Hour labels run 1-24 where 24 is the day's last interval; they are
// normalized to the 0-23 end-hour convention (24 becomes hour 0 of the same
// date, matching the price archive's "23-24" entry).
func ReadRecords(r io.Reader) ([]types.Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read consumption export: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("consumption export has no data rows")
	}

	records := make([]types.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseRow converts one already-split export row into a Record.
func ParseRow(fields []string) (types.Record, error) {
	if len(fields) < minColumns {
		return types.Record{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(fields))
	}

	date, err := types.ParseDMY(fields[colDate])
	if err != nil {
		return types.Record{}, err
	}

	label, err := strconv.Atoi(strings.TrimSpace(fields[colHour]))
	if err != nil || label < 1 || label > 24 {
		return types.Record{}, fmt.Errorf("%w: %q", types.ErrInvalidHour, fields[colHour])
	}

	kwh, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(fields[colKWh]), ",", "."), 64)
	if err != nil {
		return types.Record{}, fmt.Errorf("bad consumption value %q: %v", fields[colKWh], err)
	}
	if kwh < 0 {
		return types.Record{}, fmt.Errorf("negative consumption %v on %s", kwh, date)
	}

	return types.Record{Date: date, Hour: label % 24, KWh: kwh}, nil
}
