package main

import (
	"fmt"
	"time"

	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/pipeline"
	"github.com/oukeidos/maintrans/internal/recovery"
	"github.com/spf13/cobra"
)

var (
	runRepairPipeline    = pipeline.RunRepair
	loadSessionLog       = recovery.LoadSessionLog
	printRepairStatsFunc = printUsageStats
)

type repairOptions struct {
	dsn        string
	baseURL    string
	reportPath string
	allowEnv   bool
	envOnly    bool
}

func newRepairCmd(global *globalOptions) *cobra.Command {
	opts := repairOptions{}
	cmd := &cobra.Command{
		Use:   "repair <session_log.json>",
		Short: "Resume a partially failed translation using its recovery log",
		Example: "  maintrans repair working_recovery.json --dsn records.db",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				_ = cmd.Usage()
				return fmt.Errorf("session_log.json is required")
			}
			return runRepair(cmd, global, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "Store data source name (recovery logs do not record it)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Endpoint base URL (openai, compat)")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Write a JSON run report to this path")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading API key from environment variables")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Use only environment variables for API keys")
	return cmd
}

func runRepair(cmd *cobra.Command, global *globalOptions, args []string, opts *repairOptions) error {
	startTime := time.Now()
	logPath := args[0]

	file, err := loadConfigFile(global.configPath)
	if err != nil {
		return err
	}
	cfg := file.Apply(pipeline.DefaultConfig())
	cfg.LogPath = logPath
	if opts.dsn != "" {
		cfg.DSN = opts.dsn
	}
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	if opts.reportPath != "" {
		cfg.ReportPath = opts.reportPath
	}

	// The provider comes from the log, so the key has to be resolved for it.
	session, err := loadSessionLog(logPath)
	if err != nil {
		return fmt.Errorf("failed to load recovery log: %w", err)
	}
	key, source, err := resolveAPIKey(session.Provider, opts.allowEnv, opts.envOnly)
	if err != nil {
		return err
	}
	if session.Provider != "mock" {
		logger.Info("Using API Key", "provider", session.Provider, "source", source)
	}
	cfg.APIKey = key
	cfg.OnProgress = logProgress

	ctx, stop := signalContext()
	defer stop()
	result, err := runRepairPipeline(ctx, cfg)

	if shouldPrintRepairStats(result) {
		printRepairStatsFunc(cmd.OutOrStdout(), result.Usage, time.Since(startTime), result.Provider, result.Model)
	}
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Repair canceled", "error", err)
			return nil
		}
		return err
	}
	return nil
}

func shouldPrintRepairStats(result pipeline.RunResult) bool {
	return result.Model != "" || result.Usage.TotalTokens > 0
}
