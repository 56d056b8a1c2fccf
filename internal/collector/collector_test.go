package collector

import (
	"errors"
	"reflect"
	"testing"

	"github.com/oukeidos/locsync/internal/apperrors"
	"github.com/oukeidos/locsync/internal/logger"
	"github.com/oukeidos/locsync/internal/store"
)

func post(id string, data map[string]map[string]string) *store.Record {
	return &store.Record{Type: "blog.post", RecordID: id, Default: "en", Order: []string{"title", "body"}, Data: data}
}

func TestCollectFromModels(t *testing.T) {
	c := New(logger.Discard())
	records := []store.LocalizableRecord{
		post("1", map[string]map[string]string{
			"title": {"en": "Hello"},
			"body":  {"en": "   "},
		}),
		post("2", map[string]map[string]string{
			"title": {"en": "World", "de": "Welt"},
			"body":  {"en": "Text"},
		}),
	}

	units, stats := c.CollectFromModels(records, []string{"title", "body"}, "en", "de", false)
	if got := Texts(units); !reflect.DeepEqual(got, []string{"Hello", "Text"}) {
		t.Fatalf("Texts() = %v", got)
	}
	if stats.SkippedEmpty != 1 || stats.SkippedExisting != 1 {
		t.Fatalf("stats = %+v, want 1 empty and 1 existing", stats)
	}
	for i, u := range units {
		if u.OriginIndex != i {
			t.Errorf("unit %d: OriginIndex = %d", i, u.OriginIndex)
		}
	}
	if units[1].Origin.Key() != "2.body" {
		t.Fatalf("origin key = %q", units[1].Origin.Key())
	}
}

func TestCollectFromModels_Overwrite(t *testing.T) {
	c := New(logger.Discard())
	records := []store.LocalizableRecord{
		post("1", map[string]map[string]string{"title": {"en": "World", "de": "Welt"}}),
	}
	units, stats := c.CollectFromModels(records, []string{"title"}, "en", "de", true)
	if len(units) != 1 || stats.SkippedExisting != 0 {
		t.Fatalf("overwrite should emit existing translations: units=%d stats=%+v", len(units), stats)
	}
}

func TestCollectFromModels_DefaultLocaleNeverOverwritten(t *testing.T) {
	c := New(logger.Discard())
	records := []store.LocalizableRecord{
		post("1", map[string]map[string]string{"title": {"en": "Hello", "de": "Hallo"}}),
	}
	units, stats := c.CollectFromModels(records, []string{"title"}, "de", "en", true)
	if len(units) != 0 || stats.SkippedExisting != 1 {
		t.Fatalf("default locale target must be skipped: units=%d stats=%+v", len(units), stats)
	}
}

func TestHasExistingTranslation_IgnoresFallback(t *testing.T) {
	rec := post("1", map[string]map[string]string{"title": {"en": "Hello"}})
	if HasExistingTranslation(rec, "title", "fr") {
		t.Fatalf("fallback value must not count as existing")
	}
	if !HasExistingTranslation(rec, "title", "en") {
		t.Fatalf("default locale always exists")
	}
}

func TestKeepExisting(t *testing.T) {
	rec := post("1", map[string]map[string]string{"title": {"en": "Hello", "de": "Hallo"}})
	tests := []struct {
		target    string
		overwrite bool
		want      bool
	}{
		{"de", false, true},
		{"de", true, false},
		{"fr", false, false},
		{"fr", true, false},
		{"en", false, true},
		{"en", true, true},
	}
	for _, tt := range tests {
		if got := KeepExisting(rec, "title", tt.target, tt.overwrite); got != tt.want {
			t.Errorf("KeepExisting(%s, overwrite=%v) = %v, want %v", tt.target, tt.overwrite, got, tt.want)
		}
	}
}

func TestCollectFromMessages_EmptyTargetIsNotExisting(t *testing.T) {
	c := New(logger.Discard())
	msg := &store.MessageEntry{Key: "greeting", Data: map[string]string{"en": "Hello", "de": ""}, Fallback: "en"}

	units, stats := c.CollectFromMessages([]store.Message{msg}, "en", "de", false)
	if len(units) != 1 || units[0].SourceText != "Hello" {
		t.Fatalf("expected one unit for empty de entry, got %d (stats %+v)", len(units), stats)
	}
}

func TestCollectFromMessages_FallbackResolvedTargetIsNotExisting(t *testing.T) {
	c := New(logger.Discard())
	// TextForLocale("de") resolves to the English fallback; that must not
	// be mistaken for an existing German translation.
	msg := &store.MessageEntry{Key: "greeting", Data: map[string]string{"en": "Hello"}, Fallback: "en"}
	if msg.TextForLocale("de") == "" {
		t.Fatalf("test precondition: fallback should resolve")
	}
	units, _ := c.CollectFromMessages([]store.Message{msg}, "en", "de", false)
	if len(units) != 1 {
		t.Fatalf("expected one unit, got %d", len(units))
	}
}

func TestCollectFromMessages_SourceFallbackAndSkips(t *testing.T) {
	c := New(logger.Discard())
	messages := []store.Message{
		&store.MessageEntry{Key: "a", Data: map[string]string{"fr": "Bonjour", "it": "Ciao"}},
		&store.MessageEntry{Key: "b", Data: map[string]string{}},
		&store.MessageEntry{Key: "c", Data: map[string]string{"en": "Yes", "de": "Ja"}},
	}
	units, stats := c.CollectFromMessages(messages, "en", "de", false)
	if len(units) != 1 || units[0].SourceText != "Bonjour" || units[0].Origin.Key() != "a" {
		t.Fatalf("expected fallback to first locale in order, got %+v", units)
	}
	if stats.SkippedEmpty != 1 || stats.SkippedExisting != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestMapResults(t *testing.T) {
	units := []Unit{
		{SourceText: "a", Origin: Origin{Attribute: "x"}},
		{SourceText: "b", Origin: Origin{Attribute: "y"}},
	}
	mapped, err := MapResults([]string{"A", "B"}, units)
	if err != nil {
		t.Fatal(err)
	}
	if mapped[1].Origin.Attribute != "y" || mapped[1].TranslatedText != "B" {
		t.Fatalf("unexpected mapping: %+v", mapped)
	}

	_, err = MapResults([]string{"A"}, units)
	if !errors.Is(err, ErrIndexMismatch) {
		t.Fatalf("expected ErrIndexMismatch, got %v", err)
	}
	if kind, _ := apperrors.KindOf(err); kind != apperrors.KindValidation {
		t.Fatalf("expected validation kind, got %q", kind)
	}
}

func TestStats(t *testing.T) {
	s := Stats{Translated: 1}
	s.Add(Stats{Translated: 2, SkippedEmpty: 1, Failed: 3})
	if s.Translated != 3 || s.Total() != 7 {
		t.Fatalf("stats = %+v", s)
	}
}
