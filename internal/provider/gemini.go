package provider

import (
	"context"
	"log/slog"
	"sync"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/gemini"
	"github.com/oukeidos/locsync/internal/language"
	"github.com/oukeidos/locsync/internal/logger"
)

// Gemini adapts an LLM client to Provider. Catalogs come from the built-in
// language table and usage is the token count accumulated by this process.
type Gemini struct {
	client       gemini.Translator
	preserveHTML bool
	log          *slog.Logger

	mu    sync.Mutex
	usage gemini.UsageMetadata
}

var _ Provider = (*Gemini)(nil)

func NewGemini(client gemini.Translator, preserveHTML bool, l *slog.Logger) *Gemini {
	return &Gemini{client: client, preserveHTML: preserveHTML, log: logger.OrDefault(l)}
}

func (g *Gemini) Name() string { return gemini.ProviderName }

func (g *Gemini) TranslateText(ctx context.Context, text, source, target string, opts Options) (string, error) {
	if isBlank(text) {
		return text, nil
	}
	out, err := g.translate(ctx, []string{text}, target, opts)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

func (g *Gemini) TranslateBatch(ctx context.Context, texts []string, source, target string, opts Options) ([]string, error) {
	kept, positions := compact(texts)
	if len(kept) == 0 {
		return append([]string(nil), texts...), nil
	}
	out, err := g.translate(ctx, kept, target, opts)
	if err != nil {
		return nil, err
	}
	return expand(texts, out, positions), nil
}

func (g *Gemini) translate(ctx context.Context, texts []string, target string, opts Options) ([]string, error) {
	targetName := target
	if name, ok := language.Name(target); ok {
		targetName = name + " (" + target + ")"
	}
	resp, err := g.client.Translate(ctx, gemini.RequestData{
		TargetLanguage: targetName,
		Formality:      opts.Formality,
		HTML:           g.preserveHTML || opts.PreserveHTML,
		Texts:          texts,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Translations) != len(texts) {
		return nil, apperrors.Remote(gemini.ProviderName, apperrors.KindValidation, "Gemini returned an unexpected number of translations.", nil)
	}
	g.mu.Lock()
	g.usage.Add(resp.Usage)
	g.mu.Unlock()
	return resp.Translations, nil
}

func (g *Gemini) SourceLanguages(ctx context.Context) map[string]string { return language.Catalog() }

func (g *Gemini) TargetLanguages(ctx context.Context) map[string]string { return language.Catalog() }

func (g *Gemini) Usage(ctx context.Context) *Usage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &Usage{PromptTokens: g.usage.PromptTokenCount, OutputTokens: g.usage.CandidatesTokenCount}
}

func (g *Gemini) TestConnection(ctx context.Context) bool {
	if _, err := g.TranslateText(ctx, "Hello", "EN", "DE", Options{}); err != nil {
		g.log.Error("Gemini connection test failed", "error", apperrors.PublicMessage(err))
		return false
	}
	return true
}
