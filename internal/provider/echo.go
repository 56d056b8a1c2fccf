package provider

import (
	"context"

	"github.com/oukeidos/locsync/internal/language"
)

// Echo returns every input unchanged. It backs --dry-run.
type Echo struct{}

var _ Provider = Echo{}

func (Echo) Name() string { return "echo" }

func (Echo) TranslateText(_ context.Context, text, _, _ string, _ Options) (string, error) {
	return text, nil
}

func (Echo) TranslateBatch(_ context.Context, texts []string, _, _ string, _ Options) ([]string, error) {
	return append([]string(nil), texts...), nil
}

func (Echo) SourceLanguages(context.Context) map[string]string { return language.Catalog() }

func (Echo) TargetLanguages(context.Context) map[string]string { return language.Catalog() }

func (Echo) Usage(context.Context) *Usage { return &Usage{} }

func (Echo) TestConnection(context.Context) bool { return true }
