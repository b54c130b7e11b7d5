package tidy

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/melissasara-mathews/yfinance/internal/model"
)

// Table is an ordered sequence of tidy rows.
type Table []model.TidyRow

// dateLayouts are the column-header formats the provider is known to emit.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseHeaderDate tries each known layout and pins the result to a whole
// UTC date. The bool is false for headers that are not dates at all.
func parseHeaderDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return normalizeDate(t), true
		}
	}
	return time.Time{}, false
}

// normalizeDate drops any time-of-day component and pins the date to UTC.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Tidy unpivots one wide statement into long rows annotated with the given
// statement, period, and ticker. Columns whose header does not parse as a
// date are excluded entirely; the second return value is how many were
// dropped. A nil or empty input yields an empty table, not an error.
//
// Rows come back sorted by (date, metric) ascending so output is
// deterministic and diff-friendly.
func Tidy(ws *model.WideStatement, stmt model.Statement, period model.Period, ticker string) (Table, int) {
	if ws.Empty() {
		return Table{}, 0
	}

	dates := make([]time.Time, len(ws.Columns))
	valid := make([]bool, len(ws.Columns))
	dropped := 0
	for i, header := range ws.Columns {
		d, ok := parseHeaderDate(header)
		if !ok {
			dropped++
			continue
		}
		dates[i] = d
		valid[i] = true
	}

	rows := Table{}
	for _, wr := range ws.Rows {
		for i := range ws.Columns {
			if !valid[i] {
				continue
			}
			var value decimal.NullDecimal
			if i < len(wr.Cells) {
				value = wr.Cells[i]
			}
			rows = append(rows, model.TidyRow{
				Ticker:    ticker,
				Statement: stmt,
				Period:    period,
				Date:      dates[i],
				Metric:    wr.Metric,
				Value:     value,
			})
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if !rows[a].Date.Equal(rows[b].Date) {
			return rows[a].Date.Before(rows[b].Date)
		}
		return rows[a].Metric < rows[b].Metric
	})

	return rows, dropped
}
