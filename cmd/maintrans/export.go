package main

import (
	"fmt"
	"os"

	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/pipeline"
	"github.com/oukeidos/maintrans/internal/store"
	"github.com/spf13/cobra"
)

type exportOptions struct {
	driver string
	dsn    string
	table  string
	yes    bool
}

func newExportCmd(global *globalOptions) *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export <output.xlsx>",
		Short: "Export a table to an Excel workbook",
		Example: "  maintrans export --table working_en translated.xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				_ = cmd.Usage()
				return fmt.Errorf("output file is required")
			}
			return runExport(cmd, global, args[0], &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	f := cmd.Flags()
	f.StringVar(&opts.driver, "driver", "", "Store driver (sqlite, mysql, postgres)")
	f.StringVar(&opts.dsn, "dsn", "", "Store data source name")
	f.StringVar(&opts.table, "table", "", "Table to export (default: output or working table from the config file)")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Overwrite the output file without asking")
	return cmd
}

func runExport(cmd *cobra.Command, global *globalOptions, path string, opts *exportOptions) error {
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
	table := opts.table
	if table == "" {
		table = cfg.OutputTable
	}
	if table == "" {
		table = cfg.Table
	}
	if table == "" {
		return fmt.Errorf("table is required (--table or store.table)")
	}
	if cfg.DSN == "" {
		return fmt.Errorf("store DSN is required")
	}
	driver, err := store.ParseDriver(cfg.Driver)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		ok, err := newConfirmer().Overwrite("file", path, opts.yes)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("Export file exists. Aborted by user.", "path", path)
			return nil
		}
	}

	ctx, stop := signalContext()
	defer stop()
	st, err := store.Open(ctx, driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	t, err := st.ReadAll(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to read table: %w", err)
	}
	if err := store.ExportXLSX(path, t); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records from %s to %s\n", t.Len(), table, path)
	return nil
}
