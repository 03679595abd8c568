package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/oukeidos/maintrans/internal/gateway"
)

type keyStubs struct {
	promptCalls int
	keyCalls    int
	envCalls    int
}

func withKeyStubs(t *testing.T, terminal bool, promptVal string, keychainVal string, envVal string) (*keyStubs, func()) {
	t.Helper()
	stubs := &keyStubs{}

	prevIsTerminal := isTerminal
	prevPrompt := promptForKey
	prevGetKey := getKey
	prevGetEnv := getEnvKey

	isTerminal = func(_ int) bool { return terminal }
	promptForKey = func(_ string) (string, error) {
		stubs.promptCalls++
		return promptVal, nil
	}
	getKey = func(_ string, _ bool) (string, string) {
		stubs.keyCalls++
		if keychainVal == "" {
			return "", ""
		}
		return keychainVal, "Keychain"
	}
	getEnvKey = func(_ string) (string, bool) {
		stubs.envCalls++
		if envVal == "" {
			return "", false
		}
		return envVal, true
	}

	restore := func() {
		isTerminal = prevIsTerminal
		promptForKey = prevPrompt
		getKey = prevGetKey
		getEnvKey = prevGetEnv
	}

	return stubs, restore
}

func TestResolveAPIKey_KeychainFallback(t *testing.T) {
	stubs, restore := withKeyStubs(t, true, "", "keychain-key", "env-key")
	defer restore()

	key, source, err := resolveAPIKey("gemini", true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "keychain-key" || source != "Keychain" {
		t.Fatalf("expected keychain key/source, got key=%q source=%q", key, source)
	}
	if stubs.envCalls != 0 {
		t.Fatalf("expected no env calls, got envCalls=%d", stubs.envCalls)
	}
}

func TestResolveAPIKey_EnvFallbackWhenAllowed(t *testing.T) {
	stubs, restore := withKeyStubs(t, false, "", "", "env-key")
	defer restore()

	key, source, err := resolveAPIKey("openai", true, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "env-key" || source != "Environment Variable" {
		t.Fatalf("expected env key/source, got key=%q source=%q", key, source)
	}
	if stubs.envCalls == 0 {
		t.Fatalf("expected env call")
	}
}

func TestResolveAPIKey_EnvDisabledError(t *testing.T) {
	stubs, restore := withKeyStubs(t, false, "", "", "env-key")
	defer restore()

	key, source, err := resolveAPIKey("gemini", false, false)
	if err == nil {
		t.Fatalf("expected error, got key=%q source=%q", key, source)
	}
	if stubs.envCalls != 0 {
		t.Fatalf("expected no env calls, got envCalls=%d", stubs.envCalls)
	}
}

func TestResolveAPIKey_NonInteractiveError(t *testing.T) {
	stubs, restore := withKeyStubs(t, false, "", "", "")
	defer restore()

	key, source, err := resolveAPIKey("gemini", false, false)
	if err == nil {
		t.Fatalf("expected error, got key=%q source=%q", key, source)
	}
	if stubs.promptCalls != 0 {
		t.Fatalf("expected no prompt, got promptCalls=%d", stubs.promptCalls)
	}
}

func TestResolveAPIKey_EnvOnly(t *testing.T) {
	stubs, restore := withKeyStubs(t, false, "prompt-key", "keychain-key", "env-key")
	defer restore()

	key, source, err := resolveAPIKey("compat", false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "env-key" || source != "Environment Variable" {
		t.Fatalf("expected env key/source, got key=%q source=%q", key, source)
	}
	if stubs.promptCalls != 0 || stubs.keyCalls != 0 {
		t.Fatalf("expected no prompt/keychain calls, got promptCalls=%d keyCalls=%d", stubs.promptCalls, stubs.keyCalls)
	}
}

func TestResolveAPIKey_EnvOnlyMissingNamesVariable(t *testing.T) {
	_, restore := withKeyStubs(t, false, "", "keychain-key", "")
	defer restore()

	_, _, err := resolveAPIKey("compat", false, true)
	if err == nil || !strings.Contains(err.Error(), "MAINTRANS_COMPAT_API_KEY") {
		t.Fatalf("expected error naming the env variable, got %v", err)
	}
}

func TestResolveAPIKey_PromptFallback(t *testing.T) {
	stubs, restore := withKeyStubs(t, true, "  prompt-key ", "", "")
	defer restore()

	key, source, err := resolveAPIKey("gemini", false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "prompt-key" || source != "Terminal Prompt" {
		t.Fatalf("expected prompt key/source, got key=%q source=%q", key, source)
	}
	if stubs.keyCalls == 0 {
		t.Fatalf("expected keychain lookup before prompt")
	}
}

func TestResolveAPIKey_MockNeedsNoKey(t *testing.T) {
	stubs, restore := withKeyStubs(t, false, "", "", "")
	defer restore()

	if _, _, err := resolveAPIKey("mock", false, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stubs.keyCalls+stubs.envCalls+stubs.promptCalls != 0 {
		t.Fatalf("mock provider should not look up keys")
	}
}

func TestResolveAPIKey_UnknownProvider(t *testing.T) {
	_, restore := withKeyStubs(t, false, "", "k", "k")
	defer restore()

	if _, _, err := resolveAPIKey("anthropic", true, false); err == nil {
		t.Fatalf("expected unknown provider error")
	}
}

func TestPrintUsageStats(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		usage    gateway.Usage
		want     []string
		notWant  []string
	}{
		{
			name:     "gemini reasoning",
			provider: "gemini",
			model:    "gemini-2.5-flash",
			usage:    gateway.Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 150},
			want:     []string{"Tokens: In=100, Out=20, Total=150", "Estimated Cost", "Reasoning Tokens: 30"},
		},
		{
			name:     "openai",
			provider: "openai",
			model:    "gpt-4o-mini",
			usage:    gateway.Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
			want:     []string{"Estimated Cost"},
			notWant:  []string{"Reasoning"},
		},
		{
			name:     "compat unpriced",
			provider: "compat",
			model:    "llama3",
			usage:    gateway.Usage{PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2},
			want:     []string{"Tokens:"},
			notWant:  []string{"Estimated Cost"},
		},
		{
			name:     "no usage",
			provider: "mock",
			model:    "mock",
			want:     []string{"Model: mock"},
			notWant:  []string{"Tokens:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printUsageStats(&buf, tt.usage, time.Second, tt.provider, tt.model)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Fatalf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Fatalf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestLoadConfigFile_Explicit(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/custom.yaml"
	writeFile(t, path, "store:\n  table: working\n")
	f, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Store.Table != "working" || f.Path != path {
		t.Fatalf("unexpected file: %+v", f.Store)
	}
}

func TestLoadConfigFile_MissingExplicit(t *testing.T) {
	if _, err := loadConfigFile(t.TempDir() + "/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}
