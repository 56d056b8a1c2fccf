// Package config loads the locsync.yaml configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/batch"
	"github.com/oukeidos/locsync/internal/fieldfilter"
	"github.com/oukeidos/locsync/internal/store"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "locsync.yaml"

const (
	ProviderDeepL  = "deepl"
	ProviderGemini = "gemini"
	ProviderEcho   = "echo"
)

var validFormality = map[string]bool{
	"": true, "default": true, "more": true, "less": true, "prefer_more": true, "prefer_less": true,
}

// Config is the top-level locsync.yaml structure.
type Config struct {
	// Provider is "deepl" (default), "gemini" or "echo".
	Provider string `yaml:"provider,omitempty"`
	// Server selects the DeepL host: "free", "pro" or empty to infer it from the key.
	Server      string `yaml:"server,omitempty"`
	GeminiModel string `yaml:"gemini_model,omitempty"`

	PreserveHTML bool   `yaml:"preserve_html,omitempty"`
	Formality    string `yaml:"formality,omitempty"`

	MaxBatchSize int `yaml:"max_batch_size,omitempty"`
	MaxRetries   int `yaml:"max_retries,omitempty"`

	SourceLocale  string   `yaml:"source_locale,omitempty"`
	TargetLocales []string `yaml:"target_locales,omitempty"`
	// LocaleMappings extends and overrides the built-in host → provider table.
	LocaleMappings map[string]string `yaml:"locale_mappings,omitempty"`

	// Fields replaces the built-in rule lists that are non-empty here.
	Fields fieldfilter.Rules `yaml:"fields,omitempty"`

	Database string      `yaml:"database,omitempty"`
	Models   []ModelType `yaml:"models,omitempty"`
}

// ModelType registers a record type for translation.
type ModelType struct {
	Type       string                             `yaml:"type"`
	Attributes []string                           `yaml:"attributes,omitempty"`
	Fields     map[string]fieldfilter.FieldConfig `yaml:"fields,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Provider:     ProviderDeepL,
		MaxBatchSize: batch.DefaultMaxBatchSize,
		MaxRetries:   batch.DefaultMaxRetries,
		SourceLocale: "en",
		Database:     "locsync.db",
	}
}

// Load reads path over Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, apperrors.Config(fmt.Sprintf("Invalid configuration file %s.", path), err)
	}
	return cfg, nil
}

// Normalize applies safe bounds and returns any adjustments.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderDeepL
	}
	c.Server = strings.ToLower(strings.TrimSpace(c.Server))
	c.Formality = strings.ToLower(strings.TrimSpace(c.Formality))

	bc := batch.Config{MaxBatchSize: c.MaxBatchSize, MaxRetries: c.MaxRetries}.Normalize()
	if c.MaxBatchSize > batch.ProviderMaxBatchSize {
		notes = append(notes, fmt.Sprintf("max_batch_size clamped from %d to %d (provider max %d)", c.MaxBatchSize, bc.MaxBatchSize, batch.ProviderMaxBatchSize))
	}
	if c.MaxRetries < 0 {
		notes = append(notes, fmt.Sprintf("max_retries raised from %d to %d", c.MaxRetries, bc.MaxRetries))
	}
	c.MaxBatchSize, c.MaxRetries = bc.MaxBatchSize, bc.MaxRetries

	if strings.TrimSpace(c.SourceLocale) == "" {
		c.SourceLocale = "en"
		notes = append(notes, "source_locale defaulted to en")
	}
	return c, notes
}

// Validate checks the configuration after Normalize.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderDeepL, ProviderGemini, ProviderEcho:
	default:
		return apperrors.Config(fmt.Sprintf("Unknown provider %q (expected deepl, gemini or echo).", c.Provider), nil)
	}
	switch c.Server {
	case "", "free", "pro":
	default:
		return apperrors.Config(fmt.Sprintf("Unknown DeepL server %q (expected free or pro).", c.Server), nil)
	}
	if !validFormality[c.Formality] {
		return apperrors.Config(fmt.Sprintf("Unknown formality %q.", c.Formality), nil)
	}
	seen := map[string]bool{}
	for i, m := range c.Models {
		if strings.TrimSpace(m.Type) == "" {
			return apperrors.Config(fmt.Sprintf("Model #%d has no type.", i+1), nil)
		}
		if seen[m.Type] {
			return apperrors.Config(fmt.Sprintf("Model type %q is declared twice.", m.Type), nil)
		}
		seen[m.Type] = true
	}
	if _, err := fieldfilter.New(c.FieldRules()); err != nil {
		return err
	}
	return nil
}

// FieldRules merges configured rule lists over the built-in ones.
func (c Config) FieldRules() fieldfilter.Rules {
	rules := fieldfilter.DefaultRules()
	if len(c.Fields.ExcludedTypes) > 0 {
		rules.ExcludedTypes = c.Fields.ExcludedTypes
	}
	if len(c.Fields.TranslatableTypes) > 0 {
		rules.TranslatableTypes = c.Fields.TranslatableTypes
	}
	if len(c.Fields.ExcludedPatterns) > 0 {
		rules.ExcludedPatterns = c.Fields.ExcludedPatterns
	}
	rules.CustomExclusions = append(rules.CustomExclusions, c.Fields.CustomExclusions...)
	return rules
}

func (c Config) BatchConfig() batch.Config {
	return batch.Config{MaxBatchSize: c.MaxBatchSize, MaxRetries: c.MaxRetries}
}

// Registry builds the record type registry from Models.
func (c Config) Registry() *store.Registry {
	r := store.NewRegistry()
	for _, m := range c.Models {
		r.Register(store.ModelType{Name: m.Type, Attributes: m.Attributes, Fields: m.Fields})
	}
	return r
}
