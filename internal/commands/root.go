package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/melissasara-mathews/yfinance/internal/buildinfo"
	"github.com/melissasara-mathews/yfinance/internal/config"
	"github.com/melissasara-mathews/yfinance/internal/logger"
	"github.com/melissasara-mathews/yfinance/internal/pipeline"
	"github.com/melissasara-mathews/yfinance/internal/provider"
)

// NewRootCommand creates the yfin CLI command. The tool is a single
// invocation with no subcommands: one run fetches, tidies, filters, and
// writes all outputs.
func NewRootCommand() *cobra.Command {
	var (
		configPath string
		ticker     string
		outDir     string
		start      string
		end        string
		timeout    time.Duration
	)

	defaults := config.Default()

	cmd := &cobra.Command{
		Use:     "yfin",
		Short:   "Fetch and tidy company financial statements",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A .env file is optional; a missing one is not an error.
			_ = godotenv.Load()

			cfg := defaults
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
				if cfg.Timeout == 0 {
					cfg.Timeout = defaults.Timeout
				}
			}

			if v := os.Getenv("YFIN_BASE_URL"); v != "" {
				cfg.BaseURL = v
			}
			if v := os.Getenv("YFIN_LOG_LEVEL"); v != "" {
				cfg.LogLevel = v
			}

			// Flags beat the config file and environment.
			flags := cmd.Flags()
			if flags.Changed("ticker") {
				cfg.Ticker = ticker
			}
			if flags.Changed("outdir") {
				cfg.OutDir = outDir
			}
			if flags.Changed("start") {
				cfg.Start = start
			}
			if flags.Changed("end") {
				cfg.End = end
			}
			if flags.Changed("timeout") {
				cfg.Timeout = timeout
			}

			absDir, err := filepath.Abs(cfg.OutDir)
			if err != nil {
				return fmt.Errorf("resolving output dir: %w", err)
			}
			cfg.OutDir = absDir

			log := logger.New(cfg.LogLevel)

			client, err := provider.NewYahooClient(cfg.BaseURL, cfg.Timeout, log)
			if err != nil {
				return err
			}

			summary, err := pipeline.Run(cmd.Context(), cfg, client, log)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "optional yaml config file")
	cmd.Flags().StringVar(&ticker, "ticker", defaults.Ticker, "Yahoo Finance ticker")
	cmd.Flags().StringVar(&outDir, "outdir", defaults.OutDir, "output directory")
	cmd.Flags().StringVar(&start, "start", defaults.Start, "range start (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&end, "end", defaults.End, "range end (YYYY-MM-DD, inclusive)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaults.Timeout, "provider HTTP timeout")

	return cmd
}

func printSummary(w io.Writer, s *pipeline.Summary) {
	fmt.Fprintf(w, "Statements for %s: %d rows, %d in range\n", s.Ticker, s.TotalRows, s.FilteredRows)
	for _, sub := range s.Subsets {
		fmt.Fprintf(w, "  %-17s %-10s %d rows\n", sub.Statement, sub.Period, sub.Rows)
	}
	if s.DroppedColumns > 0 {
		fmt.Fprintf(w, "Dropped %d column(s) with unparseable date headers\n", s.DroppedColumns)
	}
	fmt.Fprintf(w, "Files written to %s\n", s.OutDir)
}
