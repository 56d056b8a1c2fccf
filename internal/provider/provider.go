// Package provider defines the translation backend contract used by the
// batch strategy and the orchestration services, with DeepL, Gemini and
// echo implementations.
package provider

import (
	"context"
	"strings"
)

// Options are per-call translation settings.
type Options struct {
	// Formality is forwarded verbatim when non-empty ("more", "less", "prefer_more", ...).
	Formality string
	// PreserveHTML requests tag-aware translation for this call.
	PreserveHTML bool
}

// Translator translates text. Errors from the remote service are returned
// unchanged so callers can decide on retries.
type Translator interface {
	TranslateText(ctx context.Context, text, source, target string, opts Options) (string, error)
	// TranslateBatch returns one result per input in input order. Blank
	// inputs are passed through untouched.
	TranslateBatch(ctx context.Context, texts []string, source, target string, opts Options) ([]string, error)
}

// Provider adds diagnostics and catalogs. These never return errors; a
// failed lookup yields an empty catalog, nil usage or false.
type Provider interface {
	Translator
	Name() string
	SourceLanguages(ctx context.Context) map[string]string
	TargetLanguages(ctx context.Context) map[string]string
	Usage(ctx context.Context) *Usage
	TestConnection(ctx context.Context) bool
}

// Usage reports consumption for the current billing period. Character
// fields are set by DeepL, token fields by LLM backends.
type Usage struct {
	CharacterCount int64 `json:"character_count,omitempty"`
	CharacterLimit int64 `json:"character_limit,omitempty"`
	PromptTokens   int   `json:"prompt_tokens,omitempty"`
	OutputTokens   int   `json:"output_tokens,omitempty"`
}

// Remaining returns the characters left, or -1 when the limit is unknown.
func (u *Usage) Remaining() int64 {
	if u == nil || u.CharacterLimit <= 0 {
		return -1
	}
	if u.CharacterCount >= u.CharacterLimit {
		return 0
	}
	return u.CharacterLimit - u.CharacterCount
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// compact returns the non-blank entries of texts and their positions.
func compact(texts []string) ([]string, []int) {
	var kept []string
	var positions []int
	for i, t := range texts {
		if isBlank(t) {
			continue
		}
		kept = append(kept, t)
		positions = append(positions, i)
	}
	return kept, positions
}

// expand writes results back into a copy of texts at positions.
func expand(texts, results []string, positions []int) []string {
	out := make([]string, len(texts))
	copy(out, texts)
	for i, pos := range positions {
		out[pos] = results[i]
	}
	return out
}
