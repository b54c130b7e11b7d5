package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/melissasara-mathews/yfinance/internal/config"
	"github.com/melissasara-mathews/yfinance/internal/model"
	"github.com/melissasara-mathews/yfinance/internal/provider"
	"github.com/melissasara-mathews/yfinance/internal/tidy"
)

// combos is the fixed order statements are combined and exported in.
var combos = []struct {
	Statement model.Statement
	Period    model.Period
}{
	{model.IncomeStatement, model.Annual},
	{model.IncomeStatement, model.Quarterly},
	{model.BalanceSheet, model.Annual},
	{model.BalanceSheet, model.Quarterly},
	{model.Cashflow, model.Annual},
	{model.Cashflow, model.Quarterly},
}

// SubsetCount reports the size of one per-statement output.
type SubsetCount struct {
	Statement model.Statement
	Period    model.Period
	Rows      int
}

// Summary describes a completed run.
type Summary struct {
	Ticker         string
	OutDir         string
	TotalRows      int
	FilteredRows   int
	DroppedColumns int
	Subsets        []SubsetCount
	RawFiles       []string
}

// Run executes the whole pipeline: fetch the six wide statements, tidy
// each, combine and date-filter, then write the full table, the filtered
// table, six per-(statement, period) subsets, and raw wide exports for
// every non-empty source table. Outputs already written stay on disk if a
// later write fails.
func Run(ctx context.Context, cfg *config.Config, p provider.Provider, log zerolog.Logger) (*Summary, error) {
	start, end, err := cfg.DateRange()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	log.Info().Str("ticker", cfg.Ticker).Msg("fetching statements")
	set, err := p.Statements(ctx, cfg.Ticker)
	if err != nil {
		return nil, fmt.Errorf("fetching statements: %w", err)
	}

	wides := set.Ordered()
	summary := &Summary{Ticker: cfg.Ticker, OutDir: cfg.OutDir}

	tables := make([]tidy.Table, len(combos))
	for i, combo := range combos {
		t, dropped := tidy.Tidy(wides[i], combo.Statement, combo.Period, cfg.Ticker)
		if dropped > 0 {
			log.Warn().
				Str("statement", string(combo.Statement)).
				Str("period", string(combo.Period)).
				Int("columns", dropped).
				Msg("dropped columns with unparseable date headers")
		}
		summary.DroppedColumns += dropped
		tables[i] = t
	}

	full, filtered := tidy.CombineAndFilter(tables, start, end)
	summary.TotalRows = len(full)
	summary.FilteredRows = len(filtered)

	slug := tickerSlug(cfg.Ticker)
	rangeTag := fmt.Sprintf("%d_%d", start.Year(), end.Year())

	fullName := fmt.Sprintf("%s_financials_all_tidy_full.csv", slug)
	if err := writeTable(filepath.Join(cfg.OutDir, fullName), full); err != nil {
		return nil, err
	}
	filteredName := fmt.Sprintf("%s_financials_all_tidy_%s.csv", slug, rangeTag)
	if err := writeTable(filepath.Join(cfg.OutDir, filteredName), filtered); err != nil {
		return nil, err
	}

	for i, combo := range combos {
		sub := tidy.SelectSubset(filtered, combo.Statement, combo.Period)
		name := fmt.Sprintf("%s_%s_%s_%s_tidy.csv", slug, fileStem(combo.Statement), combo.Period, rangeTag)
		if err := writeTable(filepath.Join(cfg.OutDir, name), sub); err != nil {
			return nil, err
		}
		summary.Subsets = append(summary.Subsets, SubsetCount{
			Statement: combo.Statement,
			Period:    combo.Period,
			Rows:      len(sub),
		})

		if !wides[i].Empty() {
			rawName := fmt.Sprintf("%s_raw_%s_%s.csv", slug, fileStem(combo.Statement), combo.Period)
			if err := writeWide(filepath.Join(cfg.OutDir, rawName), wides[i]); err != nil {
				return nil, err
			}
			summary.RawFiles = append(summary.RawFiles, rawName)
		}
	}

	log.Info().
		Int("rows", summary.TotalRows).
		Int("filtered", summary.FilteredRows).
		Str("outdir", cfg.OutDir).
		Msg("run complete")
	return summary, nil
}

func writeTable(path string, t tidy.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := tidy.WriteRows(f, t); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeWide(path string, ws *model.WideStatement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := tidy.WriteWide(f, ws); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// fileStem maps a statement to its filename fragment: income_statement
// files are named "income" for brevity, the others keep their first word.
func fileStem(s model.Statement) string {
	switch s {
	case model.IncomeStatement:
		return "income"
	case model.BalanceSheet:
		return "balance"
	default:
		return "cashflow"
	}
}

// tickerSlug lowercases a ticker and strips everything but letters and
// digits, so "SMWH.L" prefixes files as "smwhl".
func tickerSlug(ticker string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, ticker)
	if slug == "" {
		return "ticker"
	}
	return slug
}
