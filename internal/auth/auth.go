// Package auth stores provider API keys in the OS keychain, with optional
// environment variable fallback.
package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const serviceName = "locsync"

const (
	SourceKeychain = "Keychain"
	SourceEnv      = "Environment Variable"
)

type credential struct {
	account string
	envVar  string
}

var credentials = map[string]credential{
	"deepl":  {account: "deepl-auth-key", envVar: "DEEPL_API_KEY"},
	"gemini": {account: "gemini-api-key", envVar: "GEMINI_API_KEY"},
}

// Services lists providers that need a key.
func Services() []string { return []string{"deepl", "gemini"} }

func lookup(service string) (credential, error) {
	c, ok := credentials[strings.ToLower(service)]
	if !ok {
		return credential{}, fmt.Errorf("unknown service %q", service)
	}
	return c, nil
}

// EnvVar returns the environment variable consulted for service.
func EnvVar(service string) string {
	c, _ := lookup(service)
	return c.envVar
}

// GetKey returns the key for service and where it came from. The keychain
// wins over the environment; allowEnv false ignores the environment.
func GetKey(service string, allowEnv bool) (string, string) {
	c, err := lookup(service)
	if err != nil {
		return "", ""
	}

	key, err := keyring.Get(serviceName, c.account)
	if err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), SourceKeychain
	}

	if allowEnv {
		if key, ok := GetEnvKey(service); ok {
			return key, SourceEnv
		}
	}
	return "", ""
}

// SaveKey saves the key for service to the OS keychain.
func SaveKey(service, key string) error {
	c, err := lookup(service)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, c.account, strings.TrimSpace(key))
}

// DeleteKey removes the key for service from the OS keychain.
func DeleteKey(service string) error {
	c, err := lookup(service)
	if err != nil {
		return err
	}
	return keyring.Delete(serviceName, c.account)
}

// GetStatus reports whether the keychain holds a key for service.
func GetStatus(service string) bool {
	c, err := lookup(service)
	if err != nil {
		return false
	}
	key, err := keyring.Get(serviceName, c.account)
	return err == nil && key != ""
}

// PromptForAPIKey reads a key from the terminal without echo.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

// GetEnvKey retrieves the key from the environment only.
func GetEnvKey(service string) (string, bool) {
	c, err := lookup(service)
	if err != nil {
		return "", false
	}
	key := strings.TrimSpace(os.Getenv(c.envVar))
	if key == "" {
		return "", false
	}
	return key, true
}
