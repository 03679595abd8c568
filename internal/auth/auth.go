package auth

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const serviceName = "maintrans"

// Provider describes where the key of one completion provider lives.
type Provider struct {
	Name    string
	Account string
	EnvVar  string
}

var providers = map[string]Provider{
	"gemini": {Name: "gemini", Account: "gemini-api-key", EnvVar: "GEMINI_API_KEY"},
	"openai": {Name: "openai", Account: "openai-api-key", EnvVar: "OPENAI_API_KEY"},
	"compat": {Name: "compat", Account: "compat-api-key", EnvVar: "MAINTRANS_COMPAT_API_KEY"},
}

// Lookup returns the provider entry for name.
func Lookup(name string) (Provider, error) {
	p, ok := providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Provider{}, fmt.Errorf("unknown provider %q (want %s)", name, strings.Join(Providers(), ", "))
	}
	return p, nil
}

// Providers lists the providers that take an API key, sorted.
func Providers() []string {
	out := make([]string, 0, len(providers))
	for name := range providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GetKey retrieves the API key for a provider. If allowEnv is false,
// environment variables are ignored. The second value names the source.
func GetKey(provider string, allowEnv bool) (string, string) {
	p, err := Lookup(provider)
	if err != nil {
		return "", ""
	}

	key, err := keyring.Get(serviceName, p.Account)
	if err == nil && key != "" {
		return strings.TrimSpace(key), "Keychain"
	}

	if allowEnv {
		key = os.Getenv(p.EnvVar)
		if key != "" {
			return strings.TrimSpace(key), "Environment Variable"
		}
	}

	return "", ""
}

// SaveKey saves the key for a provider to the OS Keychain.
func SaveKey(provider, key string) error {
	p, err := Lookup(provider)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, p.Account, strings.TrimSpace(key))
}

// DeleteKey removes the key for a provider from the OS Keychain.
func DeleteKey(provider string) error {
	p, err := Lookup(provider)
	if err != nil {
		return err
	}
	return keyring.Delete(serviceName, p.Account)
}

// GetStatus returns whether a key exists for a provider in the keychain.
func GetStatus(provider string) bool {
	p, err := Lookup(provider)
	if err != nil {
		return false
	}
	key, err := keyring.Get(serviceName, p.Account)
	if err != nil || key == "" {
		return false
	}
	return true
}

// PromptForAPIKey securely prompts the user for their API key.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

// GetEnvKey retrieves the key from environment variables only.
func GetEnvKey(provider string) (string, bool) {
	p, err := Lookup(provider)
	if err != nil {
		return "", false
	}
	key := strings.TrimSpace(os.Getenv(p.EnvVar))
	if key == "" {
		return "", false
	}
	return key, true
}
