// Package collector gathers translatable text from records and messages
// into an ordered unit list and maps provider results back to their origins.
package collector

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/logger"
	"github.com/oukeidos/locsync/internal/store"
)

// ErrIndexMismatch is returned when results cannot be aligned with units.
var ErrIndexMismatch = errors.New("result count does not match unit count")

// Origin identifies where a unit's text came from.
type Origin struct {
	Record    store.LocalizableRecord
	Attribute string
	Message   store.Message
}

// Key is a stable, human-readable identifier for logs and reports.
func (o Origin) Key() string {
	if o.Message != nil {
		return o.Message.ID()
	}
	if o.Record != nil {
		return o.Record.ID() + "." + o.Attribute
	}
	return ""
}

// Unit is one piece of source text scheduled for translation.
type Unit struct {
	SourceText  string
	OriginIndex int
	Origin      Origin
}

// Mapped pairs a translation with the origin it belongs to.
type Mapped struct {
	Origin         Origin
	TranslatedText string
}

// Stats counts per-unit outcomes of a run.
type Stats struct {
	Translated      int `json:"translated"`
	SkippedEmpty    int `json:"skipped_empty"`
	SkippedExisting int `json:"skipped_existing"`
	// Failed counts units lost to a failed batch.
	Failed int `json:"failed"`
}

func (s *Stats) Add(o Stats) {
	s.Translated += o.Translated
	s.SkippedEmpty += o.SkippedEmpty
	s.SkippedExisting += o.SkippedExisting
	s.Failed += o.Failed
}

func (s Stats) Total() int {
	return s.Translated + s.SkippedEmpty + s.SkippedExisting + s.Failed
}

// Collector is stateless apart from its logger.
type Collector struct {
	log *slog.Logger
}

func New(l *slog.Logger) *Collector {
	return &Collector{log: logger.OrDefault(l)}
}

// CollectFromModels emits a unit per (record, attribute) whose source value
// is non-blank and whose target value is absent or overwrite is set.
func (c *Collector) CollectFromModels(records []store.LocalizableRecord, attributes []string, source, target string, overwrite bool) ([]Unit, Stats) {
	var units []Unit
	var stats Stats
	for _, rec := range records {
		for _, attr := range attributes {
			text := rec.AttributeForLocale(attr, source, true)
			if strings.TrimSpace(text) == "" {
				stats.SkippedEmpty++
				continue
			}
			if KeepExisting(rec, attr, target, overwrite) {
				stats.SkippedExisting++
				continue
			}
			units = append(units, Unit{
				SourceText:  text,
				OriginIndex: len(units),
				Origin:      Origin{Record: rec, Attribute: attr},
			})
		}
	}
	c.log.Debug("Collected record units", "records", len(records), "attributes", len(attributes), "units", len(units),
		"skipped_empty", stats.SkippedEmpty, "skipped_existing", stats.SkippedExisting)
	return units, stats
}

// KeepExisting reports whether the current target value of attr must be
// left alone. The record's default locale is never overwritten.
func KeepExisting(rec store.LocalizableRecord, attr, target string, overwrite bool) bool {
	if !HasExistingTranslation(rec, attr, target) {
		return false
	}
	return !overwrite || target == rec.DefaultLocale()
}

// HasExistingTranslation reports whether attr already has a non-fallback,
// non-blank value in target. The record's default locale always reports true
// since its value is the source itself.
func HasExistingTranslation(rec store.LocalizableRecord, attr, target string) bool {
	if target == rec.DefaultLocale() {
		return true
	}
	return strings.TrimSpace(rec.AttributeForLocale(attr, target, false)) != ""
}

// CollectFromMessages emits a unit per message with usable source text.
// An empty source falls back to the first non-empty locale value.
// Existence is checked against the raw locale map only.
func (c *Collector) CollectFromMessages(messages []store.Message, source, target string, overwrite bool) ([]Unit, Stats) {
	var units []Unit
	var stats Stats
	for _, msg := range messages {
		text := msg.TextForLocale(source)
		if strings.TrimSpace(text) == "" {
			var from string
			text, from = firstAvailable(msg.RawLocaleData())
			if text != "" {
				c.log.Info("Source text missing; using another locale", "message", msg.ID(), "source", source, "from", from)
			}
		}
		if strings.TrimSpace(text) == "" {
			stats.SkippedEmpty++
			continue
		}
		if target == source || (!overwrite && hasRawValue(msg, target)) {
			stats.SkippedExisting++
			continue
		}
		units = append(units, Unit{
			SourceText:  text,
			OriginIndex: len(units),
			Origin:      Origin{Message: msg},
		})
	}
	c.log.Debug("Collected message units", "messages", len(messages), "units", len(units),
		"skipped_empty", stats.SkippedEmpty, "skipped_existing", stats.SkippedExisting)
	return units, stats
}

func hasRawValue(msg store.Message, code string) bool {
	return strings.TrimSpace(msg.RawLocaleData()[code]) != ""
}

// firstAvailable picks the first non-blank value in locale order.
func firstAvailable(data map[string]string) (string, string) {
	codes := make([]string, 0, len(data))
	for code := range data {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if v := data[code]; strings.TrimSpace(v) != "" {
			return v, code
		}
	}
	return "", ""
}

// Texts returns the source texts of units in order.
func Texts(units []Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.SourceText
	}
	return out
}

// MapResults zips results to units by position. Any count mismatch is an
// error; nothing is mapped in that case.
func MapResults(results []string, units []Unit) ([]Mapped, error) {
	if len(results) != len(units) {
		return nil, apperrors.Validation(fmt.Errorf("%w: %d results for %d units", ErrIndexMismatch, len(results), len(units)))
	}
	out := make([]Mapped, len(units))
	for i, u := range units {
		out[i] = Mapped{Origin: u.Origin, TranslatedText: results[i]}
	}
	return out, nil
}
