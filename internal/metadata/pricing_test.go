package metadata

import (
	"math"
	"testing"
)

func TestGeminiPricing_Default(t *testing.T) {
	m, ok := GeminiPricing("unknown-model")
	if ok {
		t.Fatalf("expected default pricing for unknown model")
	}
	if m.InputPerMillion != DefaultGeminiInputPerMillion || m.OutputPerMillion != DefaultGeminiOutputPerMillion {
		t.Fatalf("unexpected default gemini pricing: %+v", m)
	}
}

func TestCosts(t *testing.T) {
	if got := GeminiCost("gemini-2.5-flash", 1_000_000, 2_000_000); math.Abs(got-5.30) > 1e-9 {
		t.Fatalf("GeminiCost = %v, want 5.30", got)
	}
	if got := DeepLCost(200_000, false); math.Abs(got-5.0) > 1e-9 {
		t.Fatalf("DeepLCost = %v, want 5", got)
	}
	if got := DeepLCost(200_000, true); got != 0 {
		t.Fatalf("free key should cost nothing, got %v", got)
	}
}
