package tidy

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/melissasara-mathews/yfinance/internal/model"
)

// Header is the CSV header for tidy statement files.
const Header = "ticker,statement,period,date,metric,value"

const (
	numFields    = 6
	dateFormat   = "2006-01-02"
	colTicker    = 0
	colStatement = 1
	colPeriod    = 2
	colDate      = 3
	colMetric    = 4
	colValue     = 5
)

// ReadRows reads all tidy rows from a CSV reader.
func ReadRows(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading tidy CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var rows Table
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteRows writes a tidy table to a CSV writer (including header).
func WriteRows(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range t {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRow converts a TidyRow to a CSV row ([]string). A null value
// becomes the empty field.
func MarshalRow(row model.TidyRow) []string {
	rec := make([]string, numFields)
	rec[colTicker] = row.Ticker
	rec[colStatement] = string(row.Statement)
	rec[colPeriod] = string(row.Period)
	rec[colDate] = row.Date.Format(dateFormat)
	rec[colMetric] = row.Metric

	if row.Value.Valid {
		rec[colValue] = row.Value.Decimal.String()
	}
	return rec
}

// UnmarshalRow converts a CSV row to a TidyRow.
func UnmarshalRow(record []string) (model.TidyRow, error) {
	if len(record) != numFields {
		return model.TidyRow{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.TidyRow{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	var value decimal.NullDecimal
	if record[colValue] != "" {
		d, err := decimal.NewFromString(record[colValue])
		if err != nil {
			return model.TidyRow{}, fmt.Errorf("parsing value %q: %w", record[colValue], err)
		}
		value = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	return model.TidyRow{
		Ticker:    record[colTicker],
		Statement: model.Statement(record[colStatement]),
		Period:    model.Period(record[colPeriod]),
		Date:      date,
		Metric:    record[colMetric],
		Value:     value,
	}, nil
}
