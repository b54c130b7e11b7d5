package provider

import (
	"context"

	"github.com/melissasara-mathews/yfinance/internal/model"
)

// Provider returns the six wide statement tables for a ticker.
type Provider interface {
	Statements(ctx context.Context, ticker string) (*StatementSet, error)
}

// StatementSet holds one fetch's worth of wide tables. Any entry may be nil
// when the source has no data for that statement/period.
type StatementSet struct {
	IncomeAnnual      *model.WideStatement
	IncomeQuarterly   *model.WideStatement
	BalanceAnnual     *model.WideStatement
	BalanceQuarterly  *model.WideStatement
	CashflowAnnual    *model.WideStatement
	CashflowQuarterly *model.WideStatement
}

// Ordered returns the six tables in canonical output order: income annual,
// income quarterly, balance annual, balance quarterly, cashflow annual,
// cashflow quarterly.
func (s *StatementSet) Ordered() []*model.WideStatement {
	return []*model.WideStatement{
		s.IncomeAnnual,
		s.IncomeQuarterly,
		s.BalanceAnnual,
		s.BalanceQuarterly,
		s.CashflowAnnual,
		s.CashflowQuarterly,
	}
}
