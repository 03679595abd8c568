package main

import (
	"fmt"
	"io"

	"github.com/oukeidos/maintrans/internal/auth"
	"github.com/oukeidos/maintrans/internal/pipeline"
	"github.com/spf13/cobra"
)

func newEnvCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Show the effective configuration and where API keys come from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnv(cmd, global)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runEnv(cmd *cobra.Command, global *globalOptions) error {
	file, err := loadConfigFile(global.configPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if file.Path != "" {
		fmt.Fprintf(out, "Config file: %s\n", file.Path)
	} else {
		fmt.Fprintln(out, "Config file: (none, built-in defaults)")
	}
	printConfig(out, file.Apply(pipeline.DefaultConfig()))

	fmt.Fprintln(out, "\nAPI keys:")
	for _, name := range auth.Providers() {
		p, err := auth.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprint(out, "  ")
		printKeyStatus(out, p)
	}
	return nil
}

// printConfig lists the settings a translate run would start from. The DSN
// is omitted since it may carry credentials.
func printConfig(w io.Writer, cfg pipeline.Config) {
	row := func(k string, v any) { fmt.Fprintf(w, "  %-22s %v\n", k, v) }
	fmt.Fprintln(w, "Settings:")
	row("driver", cfg.Driver)
	row("table", orNone(cfg.Table))
	row("output_table", orNone(cfg.OutputTable))
	row("provider", cfg.Provider)
	row("model", orNone(cfg.Model))
	row("mode", cfg.Mode)
	row("english_rewrite", cfg.EnglishRewrite)
	row("batch_size", cfg.BatchSize)
	row("retry_batch_size", cfg.RetryBatchSize)
	row("concurrency", cfg.Concurrency)
	row("qps", cfg.QPS)
	row("call_timeout", cfg.CallTimeout)
	row("max_call_attempts", cfg.MaxCallAttempts)
	row("override_scope", cfg.OverrideScope)
	row("builtin_overrides", !cfg.NoBuiltinOverrides)
	row("overrides", orNone(cfg.OverridesPath))
	row("cache", cfg.CacheBackend)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
