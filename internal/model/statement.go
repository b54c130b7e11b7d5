package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement identifies which financial statement a row belongs to.
type Statement string

const (
	IncomeStatement Statement = "income_statement"
	BalanceSheet    Statement = "balance_sheet"
	Cashflow        Statement = "cashflow"
)

// Period is the reporting cadence of a statement.
type Period string

const (
	Annual    Period = "annual"
	Quarterly Period = "quarterly"
)

// WideStatement is one statement as the provider returns it: metrics as
// rows, report dates as columns. Column headers are kept verbatim so raw
// exports reproduce exactly what the provider sent.
type WideStatement struct {
	Columns []string
	Rows    []WideRow
}

// WideRow is one line-item metric with a cell per column.
type WideRow struct {
	Metric string
	Cells  []decimal.NullDecimal
}

// Empty reports whether the statement has no cells. A nil receiver counts
// as empty, since the provider may have no data for a statement at all.
func (w *WideStatement) Empty() bool {
	return w == nil || len(w.Columns) == 0 || len(w.Rows) == 0
}

// TidyRow is a single (date, metric) observation in long form. Value is
// null when the provider reported no figure for that cell.
type TidyRow struct {
	Ticker    string
	Statement Statement
	Period    Period
	Date      time.Time
	Metric    string
	Value     decimal.NullDecimal
}
