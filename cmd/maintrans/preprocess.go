package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/pipeline"
	"github.com/oukeidos/maintrans/internal/preprocess"
	"github.com/oukeidos/maintrans/internal/record"
	"github.com/oukeidos/maintrans/internal/store"
	"github.com/spf13/cobra"
)

type preprocessOptions struct {
	driver      string
	dsn         string
	tables      []string
	xlsxPath    string
	outputTable string
	yes         bool
}

func newPreprocessCmd(global *globalOptions) *cobra.Command {
	opts := preprocessOptions{}
	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Merge and clean source tables into a working table",
		Long: "Reads source tables from the store (--tables, default: every table except\n" +
			"the output) or from the sheets of an Excel workbook (--xlsx), cleans and\n" +
			"merges them, and writes the working table that translate consumes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreprocess(cmd, global, &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	f := cmd.Flags()
	f.StringVar(&opts.driver, "driver", "", "Store driver (sqlite, mysql, postgres)")
	f.StringVar(&opts.dsn, "dsn", "", "Store data source name")
	f.StringSliceVar(&opts.tables, "tables", nil, "Source tables to merge")
	f.StringVar(&opts.xlsxPath, "xlsx", "", "Read source tables from the sheets of this workbook")
	f.StringVar(&opts.outputTable, "output-table", "", "Working table to write (default: store.table from the config file)")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Overwrite the working table without asking")
	return cmd
}

func runPreprocess(cmd *cobra.Command, global *globalOptions, opts *preprocessOptions) error {
	file, err := loadConfigFile(global.configPath)
	if err != nil {
		return err
	}
	cfg := file.Apply(pipeline.DefaultConfig())
	if opts.driver != "" {
		cfg.Driver = opts.driver
	}
	if opts.dsn != "" {
		cfg.DSN = opts.dsn
	}
	output := cfg.Table
	if opts.outputTable != "" {
		output = opts.outputTable
	}
	if output == "" {
		return fmt.Errorf("output table is required (--output-table or store.table)")
	}
	if cfg.DSN == "" {
		return fmt.Errorf("store DSN is required")
	}
	driver, err := store.ParseDriver(cfg.Driver)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	st, err := store.Open(ctx, driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	sources, err := loadSources(ctx, st, opts, output)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no source tables to preprocess")
	}

	existing, err := st.Tables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	if slices.Contains(existing, output) {
		ok, err := newConfirmer().Overwrite("table", output, opts.yes)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("Working table exists. Aborted by user.", "table", output)
			return nil
		}
	}

	working, report, err := preprocess.Run(ctx, sources, file.Preprocess)
	if err != nil {
		return fmt.Errorf("preprocessing failed: %w", err)
	}
	if err := st.WriteAll(ctx, output, working); err != nil {
		return fmt.Errorf("failed to write working table: %w", err)
	}
	logger.Info("Saved working table", "table", output, "rows", working.Len())
	printPreprocessReport(cmd.OutOrStdout(), report)
	return nil
}

// loadSources returns the tables named by --tables, the sheets of --xlsx,
// or every store table except output.
func loadSources(ctx context.Context, st *store.Store, opts *preprocessOptions, output string) ([]*record.Table, error) {
	if opts.xlsxPath != "" {
		tables, err := store.ReadXLSX(opts.xlsxPath)
		if err != nil {
			return nil, err
		}
		return tables, nil
	}
	names := opts.tables
	if len(names) == 0 {
		all, err := st.Tables(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tables: %w", err)
		}
		for _, n := range all {
			if n != output {
				names = append(names, n)
			}
		}
	}
	tables := make([]*record.Table, 0, len(names))
	for _, n := range names {
		t, err := st.ReadAll(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("failed to read table %s: %w", n, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func printPreprocessReport(w io.Writer, r preprocess.Report) {
	fmt.Fprintln(w, "\n--- Preprocessing ---")
	names := make([]string, 0, len(r.InputRows))
	for n := range r.InputRows {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "Input %s: %d rows\n", n, r.InputRows[n])
	}
	fmt.Fprintf(w, "Dropped: %d empty, %d excluded, %d duplicates\n", r.DroppedEmpty, r.DroppedExcluded, r.Duplicates)
	if len(r.UnknownLanguages) > 0 {
		fmt.Fprintf(w, "Unknown languages: %d values\n", len(r.UnknownLanguages))
	}
	if len(r.UnconfiguredProjects) > 0 {
		fmt.Fprintf(w, "Projects without split config: %v\n", r.UnconfiguredProjects)
	}
	fmt.Fprintf(w, "Output: %d rows\n", r.OutputRows)
}
