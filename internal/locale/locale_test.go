package locale

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(map[string]string{"DE-CH": "DE", "fr": "FR"})

	tests := []struct {
		in   string
		want string
	}{
		{"en", "EN-US"},
		{"EN", "EN-US"},
		{"pt-br", "PT-BR"},
		{"zh", "ZH-HANS"},
		{"de-ch", "DE"},
		{"de", "DE"},
		{"ja", "JA"},
		{" it ", "IT"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := n.Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_IdempotentOnUnmappedUppercase(t *testing.T) {
	n := NewNormalizer(nil)
	for _, code := range []string{"DE", "JA", "FR", "UK", "EN-GB", "PT-BR"} {
		once := n.Normalize(code)
		if twice := n.Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", code, once, twice)
		}
	}
}

func TestNormalizeMultiple_KeepsDuplicates(t *testing.T) {
	n := NewNormalizer(nil)
	got := n.NormalizeMultiple([]string{"de", "en", "de"})
	want := []string{"DE", "EN-US", "DE"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeMultiple() = %v, want %v", got, want)
	}
}

func TestOverrideReplacesDefault(t *testing.T) {
	n := NewNormalizer(map[string]string{"en": "EN-GB"})
	if got := n.Normalize("en"); got != "EN-GB" {
		t.Fatalf("override ignored: got %q", got)
	}
}

func TestBase(t *testing.T) {
	tests := map[string]string{"EN-US": "EN", "pt_br": "PT", "de": "DE", "ZH-HANS": "ZH"}
	for in, want := range tests {
		if got := Base(in); got != want {
			t.Errorf("Base(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSupported(t *testing.T) {
	catalog := map[string]string{"EN-US": "English (American)", "DE": "German", "pt-br": "Portuguese (Brazilian)"}
	tests := []struct {
		code string
		want bool
	}{
		{"EN-US", true},
		{"DE", true},
		{"DE-AT", true},
		{"PT-BR", true},
		{"JA", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.code, catalog); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
	if Supported("DE", nil) {
		t.Errorf("empty catalog must report unsupported")
	}
}
