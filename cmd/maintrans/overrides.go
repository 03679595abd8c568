package main

import (
	"fmt"
	"os"

	"github.com/oukeidos/maintrans/internal/files"
	"github.com/oukeidos/maintrans/internal/overrides"
	"github.com/spf13/cobra"
)

func newOverridesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "Inspect the manual override dictionary",
	}
	cmd.SetUsageTemplate(groupUsageTemplate)
	cmd.AddCommand(newOverridesExportCmd(), newOverridesCheckCmd())
	return cmd
}

func newOverridesExportCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "export [output.yaml]",
		Short: "Write the built-in dictionary as YAML (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := overrides.Builtin().Encode()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			path := args[0]
			if _, err := os.Stat(path); err == nil && !yes {
				return fmt.Errorf("%s already exists: use --yes to overwrite", path)
			}
			if err := files.AtomicWrite(path, data, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", overrides.Builtin().Len(), path)
			return nil
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Overwrite the output file")
	return cmd
}

func newOverridesCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <overrides.yaml>",
		Short: "Validate a user dictionary and report how it merges with the built-in one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := overrides.LoadFile(args[0])
			if err != nil {
				return err
			}
			builtin := overrides.Builtin()
			replaced := 0
			for _, e := range user.Entries() {
				if _, ok := builtin.Lookup(e.Source); ok {
					replaced++
				}
			}
			merged := overrides.Builtin()
			merged.Merge(user)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries (%d replace built-in), %d after merge\n",
				args[0], user.Len(), replaced, merged.Len())
			return nil
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
