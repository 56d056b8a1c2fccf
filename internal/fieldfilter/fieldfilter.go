// Package fieldfilter decides which record attributes are eligible for
// machine translation.
package fieldfilter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oukeidos/locsync/internal/apperrors"
)

// FieldConfig is the declared form-field definition of an attribute.
type FieldConfig struct {
	Type string `yaml:"type" json:"type"`
	// Translatable, when set, overrides every other rule.
	Translatable *bool `yaml:"translatable,omitempty" json:"translatable,omitempty"`
}

// Rules holds the configurable eligibility lists.
type Rules struct {
	ExcludedTypes     []string `yaml:"excluded_types"`
	TranslatableTypes []string `yaml:"translatable_types"`
	ExcludedPatterns  []string `yaml:"excluded_patterns"`
	CustomExclusions  []string `yaml:"custom_exclusions"`
}

var richTypes = map[string]bool{
	"richeditor":       true,
	"markdown":         true,
	"markdowneditor":   true,
	"mlricheditor":     true,
	"mlmarkdowneditor": true,
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		ExcludedTypes: []string{
			"dropdown", "checkbox", "checkboxlist", "radio", "switch",
			"balloon-selector", "datepicker", "colorpicker", "number",
			"fileupload", "mediafinder", "recordfinder", "relation",
			"repeater", "taglist", "partial", "section", "hint",
		},
		TranslatableTypes: []string{
			"text", "textarea", "richeditor", "markdown", "markdowneditor",
			"mltext", "mltextarea", "mlricheditor", "mlmarkdowneditor",
		},
		ExcludedPatterns: []string{
			`_id$`, `^id$`, `_at$`, `^slug$`, `url$`, `key$`,
			`password`, `token`, `^code$`, `email`, `^sort_order$`,
		},
	}
}

// Filter is a pure decision function over rules compiled at construction.
type Filter struct {
	patterns          []*regexp.Regexp
	excludedTypes     map[string]bool
	translatableTypes map[string]bool
	customExclusions  map[string]bool
}

// New compiles rules. Patterns are matched case-insensitively.
func New(rules Rules) (*Filter, error) {
	f := &Filter{
		excludedTypes:     toSet(rules.ExcludedTypes),
		translatableTypes: toSet(rules.TranslatableTypes),
		customExclusions:  toSet(rules.CustomExclusions),
	}
	for _, p := range rules.ExcludedPatterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, apperrors.Config(fmt.Sprintf("invalid field exclusion pattern %q", p), err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = true
		}
	}
	return set
}

// ShouldTranslate applies the rules in order; the first match wins.
func (f *Filter) ShouldTranslate(name string, cfg FieldConfig) bool {
	if cfg.Translatable != nil {
		return *cfg.Translatable
	}
	for _, re := range f.patterns {
		if re.MatchString(name) {
			return false
		}
	}
	if f.customExclusions[strings.ToLower(name)] {
		return false
	}
	typ := strings.ToLower(cfg.Type)
	if f.excludedTypes[typ] {
		return false
	}
	return f.translatableTypes[typ]
}

// IsRichContent reports whether the field holds HTML or markdown markup.
func (f *Filter) IsRichContent(cfg FieldConfig) bool {
	return richTypes[strings.ToLower(cfg.Type)]
}

// Eligible returns the subset of names that should be translated, in order.
// Names without a config are treated as plain text fields.
func (f *Filter) Eligible(names []string, configs map[string]FieldConfig) []string {
	var out []string
	for _, name := range names {
		cfg, ok := configs[name]
		if !ok {
			cfg = FieldConfig{Type: "text"}
		}
		if f.ShouldTranslate(name, cfg) {
			out = append(out, name)
		}
	}
	return out
}

// Bool is a helper for building FieldConfig literals.
func Bool(v bool) *bool { return &v }
