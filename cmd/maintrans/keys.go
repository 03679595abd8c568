package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/oukeidos/maintrans/internal/auth"
	"github.com/spf13/cobra"
)

type keysOptions struct {
	provider string
}

func newKeysCmd() *cobra.Command {
	opts := keysOptions{}
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys in the OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysStatus(cmd, &opts)
		},
	}

	cmd.SetUsageTemplate(groupUsageTemplate)
	cmd.PersistentFlags().StringVar(&opts.provider, "provider", "gemini", "Provider to manage ("+strings.Join(auth.Providers(), ", ")+")")

	cmd.AddCommand(
		newKeysSetCmd(&opts),
		newKeysDeleteCmd(&opts),
		newKeysStatusCmd(&opts),
	)
	return cmd
}

func newKeysSetCmd(opts *keysOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save an API key to the keychain (prompt only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysSet(cmd, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newKeysDeleteCmd(opts *keysOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a key from the keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysDelete(cmd, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newKeysStatusCmd(opts *keysOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show key status (default if no action given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysStatus(cmd, opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runKeysSet(cmd *cobra.Command, opts *keysOptions) error {
	p, err := auth.Lookup(opts.provider)
	if err != nil {
		return err
	}
	entered, err := promptForKey(fmt.Sprintf("%s API Key: ", displayName(p.Name)))
	if err != nil {
		return fmt.Errorf("error reading key: %w", err)
	}
	key := strings.TrimSpace(entered)
	if key == "" {
		return fmt.Errorf("API key is required for setup")
	}
	if err := saveKey(p.Name, key); err != nil {
		return fmt.Errorf("error saving key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s API key to keychain.\n", p.Name)
	return nil
}

func runKeysDelete(cmd *cobra.Command, opts *keysOptions) error {
	p, err := auth.Lookup(opts.provider)
	if err != nil {
		return err
	}
	if err := deleteKey(p.Name); err != nil {
		return fmt.Errorf("error deleting key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s API key from keychain.\n", p.Name)
	return nil
}

func runKeysStatus(cmd *cobra.Command, opts *keysOptions) error {
	p, err := auth.Lookup(opts.provider)
	if err != nil {
		return err
	}
	printKeyStatus(cmd.OutOrStdout(), p)
	return nil
}

func printKeyStatus(w io.Writer, p auth.Provider) {
	if getStatus(p.Name) {
		fmt.Fprintf(w, "%s API Key: Found (source=Keychain)\n", p.Name)
		return
	}
	if envKey, ok := getEnvKey(p.Name); ok && envKey != "" {
		fmt.Fprintf(w, "%s API Key: Found (source=Environment Variable %s; disabled by default, use --allow-env)\n", p.Name, p.EnvVar)
		return
	}
	fmt.Fprintf(w, "%s API Key: Not Found (keychain empty, %s not set)\n", p.Name, p.EnvVar)
}
