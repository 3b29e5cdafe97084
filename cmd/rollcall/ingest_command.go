package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"rollcall/internal/config"
	"rollcall/internal/ingest"
	"rollcall/internal/store"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var (
		filePath   string
		mode       string
		mapping    string
		batchSize  int
		skipHeader bool
		delimiter  string
		sheet      string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Reconcile a roster file against the attendance store",
		Long: "Streams a delimited or spreadsheet roster through identity and\n" +
			"event deduplication, committing in batches. Rows that cannot be\n" +
			"parsed are skipped and tallied; the run summary reports both.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(filePath) == "" {
				return usageError(errors.New("ingest: --file is required"))
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg, err := overrideIngestConfig(cfg, cmd, ingestOverrides{
				mode:       mode,
				mapping:    mapping,
				batchSize:  batchSize,
				skipHeader: skipHeader,
				delimiter:  delimiter,
				sheet:      sheet,
			})
			if err != nil {
				return usageError(err)
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := store.Open(runCtx, runCfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			pipeline := ingest.New(runCfg, st, logger, ingest.WithObserver(ingest.NewLogObserver(logger)))
			tally, err := pipeline.Run(runCtx, filePath)
			if err != nil {
				if errors.Is(err, ingest.ErrConfiguration) {
					return usageError(err)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTally(cmd.OutOrStdout(), tally))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Roster file to ingest (csv or xlsx)")
	cmd.Flags().StringVar(&mode, "mode", "", "Source mode: auto, delimited, or spreadsheet")
	cmd.Flags().StringVar(&mapping, "mapping", "", "Column mapping: dated, undated, or ignore-first")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Rows per transactional commit")
	cmd.Flags().BoolVar(&skipHeader, "skip-header", false, "Treat the first row as a header")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "Field delimiter for delimited sources")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name for spreadsheet sources")

	return cmd
}

type ingestOverrides struct {
	mode       string
	mapping    string
	batchSize  int
	skipHeader bool
	delimiter  string
	sheet      string
}

// overrideIngestConfig layers explicit flags over the loaded configuration
// without mutating the shared value, then re-validates the result.
func overrideIngestConfig(cfg *config.Config, cmd *cobra.Command, overrides ingestOverrides) (*config.Config, error) {
	runCfg := *cfg
	flags := cmd.Flags()

	if flags.Changed("mode") {
		runCfg.Ingest.Mode = overrides.mode
	}
	if flags.Changed("mapping") {
		runCfg.Ingest.ColumnMapping = overrides.mapping
	}
	if flags.Changed("batch-size") {
		runCfg.Ingest.BatchSize = overrides.batchSize
	}
	if flags.Changed("skip-header") {
		runCfg.Ingest.SkipHeader = overrides.skipHeader
	}
	if flags.Changed("delimiter") {
		runCfg.Ingest.Delimiter = overrides.delimiter
	}
	if flags.Changed("sheet") {
		runCfg.Ingest.Sheet = overrides.sheet
	}

	if err := runCfg.Validate(); err != nil {
		return nil, err
	}
	return &runCfg, nil
}
