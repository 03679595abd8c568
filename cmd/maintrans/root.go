package main

import (
	"fmt"
	"io"
	"os"

	"github.com/oukeidos/maintrans/internal/cleanup"
	"github.com/oukeidos/maintrans/internal/files"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type globalOptions struct {
	logLevel   string
	logFile    string
	configPath string
}

func execute() {
	cmd := newRootCmd()
	err := cmd.Execute()
	if cleanupErr := cleanup.RunAll(); cleanupErr != nil {
		fmt.Fprintln(os.Stderr, cleanupErr)
		if err == nil {
			err = cleanupErr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "maintrans",
		Short: "Maintenance record translator",
		Long: "maintrans translates multilingual railway maintenance records to English\n" +
			"using a large-language-model completion service.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogging(opts); err != nil {
				return err
			}
			logger.Debug("Starting command", "command", cmd.CommandPath(), "flags", changedFlags(cmd.Flags()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version.Info()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetUsageTemplate(rootUsageTemplate)

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Path to append machine-readable JSON logs")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to maintrans.yaml (default: ./maintrans.yaml when present)")

	cmd.AddCommand(
		newTranslateCmd(opts),
		newRepairCmd(opts),
		newPreprocessCmd(opts),
		newExportCmd(opts),
		newOverridesCmd(),
		newKeysCmd(),
		newEnvCmd(opts),
	)

	cmd.InitDefaultCompletionCmd()
	for _, sub := range cmd.Commands() {
		if sub.Name() == "completion" {
			sub.Short = "Generate shell completion scripts"
			sub.SetUsageTemplate(subcommandUsageTemplate)
			break
		}
	}

	return cmd
}

func initLogging(opts *globalOptions) error {
	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	var logFileW io.Writer
	if opts.logFile != "" {
		if err := files.RejectSymlinkPath(opts.logFile); err != nil {
			return err
		}
		f, err := os.OpenFile(opts.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register("log file", f.Close)
		logFileW = f
	}
	logger.Init(level, logFileW)
	return nil
}

// changedFlags lists the flags set on the command line. Values are left out
// since some flags carry DSNs.
func changedFlags(fs *pflag.FlagSet) []string {
	var names []string
	fs.Visit(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})
	return names
}
