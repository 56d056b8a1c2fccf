// Package locale maps host locale codes to the codes a translation
// provider expects on the wire.
package locale

import (
	"sort"
	"strings"
)

// defaultMappings covers codes where DeepL wants a regional variant or a
// script subtag instead of the bare uppercase code.
var defaultMappings = map[string]string{
	"en":      "EN-US",
	"en-us":   "EN-US",
	"en-gb":   "EN-GB",
	"pt":      "PT-PT",
	"pt-pt":   "PT-PT",
	"pt-br":   "PT-BR",
	"zh":      "ZH-HANS",
	"zh-cn":   "ZH-HANS",
	"zh-hans": "ZH-HANS",
	"zh-tw":   "ZH-HANT",
	"zh-hant": "ZH-HANT",
	"nb":      "NB",
	"no":      "NB",
	"es-419":  "ES-419",
}

// DefaultMappings returns a copy of the built-in host → provider table.
func DefaultMappings() map[string]string {
	out := make(map[string]string, len(defaultMappings))
	for k, v := range defaultMappings {
		out[k] = v
	}
	return out
}

// Normalizer converts host locale codes using a fixed lookup table.
// It is read-only after construction.
type Normalizer struct {
	mappings map[string]string
}

// NewNormalizer builds a Normalizer from the built-in table extended and
// overridden by mappings. Keys are matched case-insensitively.
func NewNormalizer(mappings map[string]string) *Normalizer {
	table := DefaultMappings()
	for k, v := range mappings {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		table[k] = v
	}
	return &Normalizer{mappings: table}
}

// Normalize returns the provider code for code. Unmapped codes are
// uppercased; no validation happens here.
func (n *Normalizer) Normalize(code string) string {
	code = strings.TrimSpace(code)
	if mapped, ok := n.mappings[strings.ToLower(code)]; ok {
		return mapped
	}
	return strings.ToUpper(code)
}

// NormalizeMultiple normalizes each code in order. Duplicates are kept.
func (n *Normalizer) NormalizeMultiple(codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = n.Normalize(c)
	}
	return out
}

// Mappings returns the effective table sorted by host code.
func (n *Normalizer) Mappings() []Mapping {
	out := make([]Mapping, 0, len(n.mappings))
	for k, v := range n.mappings {
		out = append(out, Mapping{Host: k, Provider: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Host < out[j].Host })
	return out
}

// Mapping is a single host → provider pair.
type Mapping struct {
	Host     string
	Provider string
}

// Base strips a regional or script suffix: "EN-US" → "EN".
func Base(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		return code[:i]
	}
	return code
}

// Supported reports whether code (already normalized) appears in a provider
// catalog, comparing case-insensitively and accepting a base-language match.
func Supported(code string, catalog map[string]string) bool {
	if len(catalog) == 0 {
		return false
	}
	want := strings.ToUpper(code)
	base := Base(code)
	for k := range catalog {
		k = strings.ToUpper(k)
		if k == want || k == base {
			return true
		}
	}
	return false
}

// Codes returns the catalog keys sorted, for error messages.
func Codes(catalog map[string]string) []string {
	out := make([]string, 0, len(catalog))
	for k := range catalog {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
