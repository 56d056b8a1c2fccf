package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/deepl"
	"github.com/oukeidos/locsync/internal/logger"
)

// DeepLClient is the subset of *deepl.Client the adapter uses.
type DeepLClient interface {
	Translate(ctx context.Context, req deepl.TranslateRequest) ([]deepl.Translation, error)
	Languages(ctx context.Context, typ deepl.LanguageType) ([]deepl.Language, error)
	Usage(ctx context.Context) (*deepl.Usage, error)
}

var _ DeepLClient = (*deepl.Client)(nil)

// DeepL adapts a DeepL client to Provider.
type DeepL struct {
	client       DeepLClient
	preserveHTML bool
	log          *slog.Logger
}

var _ Provider = (*DeepL)(nil)

// NewDeepL wraps client. preserveHTML turns on tag handling for every call.
func NewDeepL(client DeepLClient, preserveHTML bool, l *slog.Logger) *DeepL {
	return &DeepL{client: client, preserveHTML: preserveHTML, log: logger.OrDefault(l)}
}

func (d *DeepL) Name() string { return deepl.ProviderName }

// request never sets SourceLang: regional variants of the source code are
// rejected by DeepL, so detection is always left to the server.
func (d *DeepL) request(texts []string, target string, opts Options) deepl.TranslateRequest {
	req := deepl.TranslateRequest{Text: texts, TargetLang: target}
	if opts.Formality != "" {
		req.Formality = opts.Formality
	}
	if d.preserveHTML || opts.PreserveHTML {
		req.TagHandling = "html"
	}
	return req
}

func (d *DeepL) TranslateText(ctx context.Context, text, source, target string, opts Options) (string, error) {
	if isBlank(text) {
		return text, nil
	}
	out, err := d.client.Translate(ctx, d.request([]string{text}, target, opts))
	if err != nil {
		return "", err
	}
	if len(out) != 1 {
		return "", apperrors.Remote(deepl.ProviderName, apperrors.KindValidation, "",
			fmt.Errorf("got %d translations for 1 text", len(out)))
	}
	return out[0].Text, nil
}

func (d *DeepL) TranslateBatch(ctx context.Context, texts []string, source, target string, opts Options) ([]string, error) {
	kept, positions := compact(texts)
	if len(kept) == 0 {
		return append([]string(nil), texts...), nil
	}
	out, err := d.client.Translate(ctx, d.request(kept, target, opts))
	if err != nil {
		return nil, err
	}
	if len(out) != len(kept) {
		return nil, apperrors.Remote(deepl.ProviderName, apperrors.KindValidation, "",
			fmt.Errorf("got %d translations for %d texts", len(out), len(kept)))
	}
	results := make([]string, len(out))
	for i, t := range out {
		results[i] = t.Text
	}
	return expand(texts, results, positions), nil
}

func (d *DeepL) SourceLanguages(ctx context.Context) map[string]string {
	return d.languages(ctx, deepl.SourceLanguages)
}

func (d *DeepL) TargetLanguages(ctx context.Context) map[string]string {
	return d.languages(ctx, deepl.TargetLanguages)
}

func (d *DeepL) languages(ctx context.Context, typ deepl.LanguageType) map[string]string {
	langs, err := d.client.Languages(ctx, typ)
	if err != nil {
		d.log.Error("Failed to fetch DeepL language catalog", "type", string(typ), "error", apperrors.PublicMessage(err))
		return map[string]string{}
	}
	out := make(map[string]string, len(langs))
	for _, l := range langs {
		out[l.Code] = l.Name
	}
	return out
}

func (d *DeepL) Usage(ctx context.Context) *Usage {
	u, err := d.client.Usage(ctx)
	if err != nil {
		d.log.Error("Failed to fetch DeepL usage", "error", apperrors.PublicMessage(err))
		return nil
	}
	return &Usage{CharacterCount: u.CharacterCount, CharacterLimit: u.CharacterLimit}
}

// TestConnection checks credentials with the cheapest authenticated call.
func (d *DeepL) TestConnection(ctx context.Context) bool {
	if _, err := d.client.Usage(ctx); err != nil {
		d.log.Error("DeepL connection test failed", "error", apperrors.PublicMessage(err))
		return false
	}
	return true
}
