package auth

import (
	"testing"

	"github.com/zalando/go-keyring"
)

func TestGetKey_KeychainWinsOverEnv(t *testing.T) {
	keyring.MockInit()
	t.Setenv("DEEPL_API_KEY", "env-key")

	if key, src := GetKey("deepl", true); key != "env-key" || src != SourceEnv {
		t.Fatalf("GetKey() = (%q, %q), want env key", key, src)
	}
	if key, _ := GetKey("deepl", false); key != "" {
		t.Fatalf("env must be ignored when allowEnv is false, got %q", key)
	}

	if err := SaveKey("deepl", "  stored:fx "); err != nil {
		t.Fatal(err)
	}
	if key, src := GetKey("deepl", true); key != "stored:fx" || src != SourceKeychain {
		t.Fatalf("GetKey() = (%q, %q), want keychain key", key, src)
	}
	if !GetStatus("deepl") || GetStatus("gemini") {
		t.Fatalf("unexpected status")
	}

	if err := DeleteKey("deepl"); err != nil {
		t.Fatal(err)
	}
	if GetStatus("deepl") {
		t.Fatalf("key should be deleted")
	}
}

func TestUnknownService(t *testing.T) {
	keyring.MockInit()
	if err := SaveKey("bing", "x"); err == nil {
		t.Fatalf("expected error for unknown service")
	}
	if key, _ := GetKey("bing", true); key != "" {
		t.Fatalf("expected no key")
	}
	if EnvVar("gemini") != "GEMINI_API_KEY" {
		t.Fatalf("unexpected env var")
	}
}
