package tidy

import (
	"time"

	"github.com/melissasara-mathews/yfinance/internal/model"
)

// CombineAndFilter concatenates tables in the order given, normalizes every
// row date to a whole UTC date, and splits out the rows with start <= date
// <= end (inclusive on both ends, whole-date comparison). The first return
// is the unfiltered concatenation, the second the date-bounded subset.
//
// Dates coming out of Tidy are already normalized; re-normalizing here
// keeps the invariant when tables are built some other way.
func CombineAndFilter(tables []Table, start, end time.Time) (full, filtered Table) {
	full = Table{}
	filtered = Table{}
	start = normalizeDate(start)
	end = normalizeDate(end)

	for _, t := range tables {
		for _, row := range t {
			row.Date = normalizeDate(row.Date)
			full = append(full, row)
			if !row.Date.Before(start) && !row.Date.After(end) {
				filtered = append(filtered, row)
			}
		}
	}
	return full, filtered
}

// SelectSubset returns the rows matching a (statement, period) pair,
// preserving relative order. No matches yields an empty table.
func SelectSubset(t Table, stmt model.Statement, period model.Period) Table {
	sub := Table{}
	for _, row := range t {
		if row.Statement == stmt && row.Period == period {
			sub = append(sub, row)
		}
	}
	return sub
}
