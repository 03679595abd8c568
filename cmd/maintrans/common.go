package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/oukeidos/maintrans/internal/auth"
	"github.com/oukeidos/maintrans/internal/config"
	"github.com/oukeidos/maintrans/internal/confirm"
	"github.com/oukeidos/maintrans/internal/gateway"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/metadata"
	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	getKey       = auth.GetKey
	getEnvKey    = auth.GetEnvKey
	getStatus    = auth.GetStatus
	promptForKey = auth.PromptForAPIKey
	saveKey      = auth.SaveKey
	deleteKey    = auth.DeleteKey
	newConfirmer = confirm.DefaultConfirmer
)

// resolveAPIKey handles the logic for finding the API key.
func resolveAPIKey(provider string, allowEnv, envOnly bool) (string, string, error) {
	if provider == "mock" {
		return "", "none", nil
	}
	p, err := auth.Lookup(provider)
	if err != nil {
		return "", "", err
	}
	if envOnly {
		if key, ok := getEnvKey(p.Name); ok {
			return key, "Environment Variable", nil
		}
		return "", "", fmt.Errorf("env-only set but %s is not set", p.EnvVar)
	}

	if key, source := getKey(p.Name, false); key != "" {
		return key, source, nil
	}

	if allowEnv {
		if key, ok := getEnvKey(p.Name); ok {
			return key, "Environment Variable", nil
		}
	}

	if isTerminal(int(os.Stdin.Fd())) {
		key, err := promptForKey(fmt.Sprintf("%s API Key (press Enter to skip): ", displayName(p.Name)))
		if err != nil {
			return "", "", fmt.Errorf("error reading API key: %w", err)
		}
		if strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), "Terminal Prompt", nil
		}
	}

	if !isTerminal(int(os.Stdin.Fd())) {
		return "", "", fmt.Errorf("no API key available (non-interactive shell); set keychain or use --allow-env")
	}
	if allowEnv {
		return "", "", fmt.Errorf("API key is required; not found in keychain or environment")
	}
	return "", "", fmt.Errorf("API key is required; not found in keychain (environment disabled by default; use --allow-env)")
}

func displayName(provider string) string {
	switch provider {
	case "gemini":
		return "Gemini"
	case "openai":
		return "OpenAI"
	case "compat":
		return "Compatible endpoint"
	default:
		return provider
	}
}

// loadConfigFile reads the file named by --config, or maintrans.yaml in the
// working directory when the flag is empty. A missing default file is not
// an error.
func loadConfigFile(path string) (*config.File, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Default(), nil
	}
	f, err := config.Discover(wd)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return config.Default(), nil
	}
	return f, nil
}

func printUsageStats(w io.Writer, usage gateway.Usage, duration time.Duration, provider, model string) {
	fmt.Fprintln(w, "\n--- Execution Stats ---")
	fmt.Fprintf(w, "Time: %s\n", duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Provider: %s\n", provider)
	fmt.Fprintf(w, "Model: %s\n", model)
	if usage.TotalTokens <= 0 {
		return
	}
	fmt.Fprintf(w, "Tokens: In=%d, Out=%d, Total=%d\n", usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)

	pricing, _ := metadata.Pricing(provider, model)
	if pricing.InputPerMillion == 0 && pricing.OutputPerMillion == 0 {
		return
	}
	cost, reasoning := metadata.EstimateCost(pricing, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
	if pricing.ReasoningBilledAsOutput {
		fmt.Fprintf(w, "Estimated Cost: $%.5f (Reasoning Tokens: %d)\n", cost, reasoning)
		return
	}
	fmt.Fprintf(w, "Estimated Cost: $%.5f\n", cost)
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
