package store

import (
	"context"
	"errors"
	"testing"

	"github.com/oukeidos/locsync/internal/fieldfilter"
)

func newPost() *Record {
	return &Record{
		Type:     "blog.post",
		RecordID: "1",
		Default:  "en",
		Order:    []string{"title"},
		Configs:  map[string]fieldfilter.FieldConfig{"title": {Type: "text"}},
		Data:     map[string]map[string]string{"title": {"en": "Hello"}},
	}
}

func TestRecord_AttributeFallback(t *testing.T) {
	r := newPost()
	r.SetLocaleContext("de")
	if got := r.Attribute("title"); got != "Hello" {
		t.Fatalf("Attribute() with fallback = %q, want %q", got, "Hello")
	}
	if got := r.AttributeForLocale("title", "de", false); got != "" {
		t.Fatalf("AttributeForLocale() without fallback = %q, want empty", got)
	}
	r.SetAttributeForLocale("title", "Hallo", "de")
	if got := r.Attribute("title"); got != "Hallo" {
		t.Fatalf("Attribute() = %q, want %q", got, "Hallo")
	}
	if got := r.AttributeForLocale("title", "en", false); got != "Hello" {
		t.Fatalf("default locale value changed: %q", got)
	}
}

func TestRecord_LocaleContextDefaults(t *testing.T) {
	r := newPost()
	if got := r.LocaleContext(); got != "en" {
		t.Fatalf("LocaleContext() = %q, want default locale", got)
	}
}

func TestMessageEntry_FallbackIsNotRaw(t *testing.T) {
	m := &MessageEntry{Key: "nav.home", Data: map[string]string{"en": "Home", "de": ""}, Fallback: "en"}
	if got := m.TextForLocale("de"); got != "Home" {
		t.Fatalf("TextForLocale(de) = %q, want fallback %q", got, "Home")
	}
	if got := m.RawLocaleData()["de"]; got != "" {
		t.Fatalf("raw de = %q, want empty", got)
	}
}

func TestMemoryRecords_LoadAndSave(t *testing.T) {
	ctx := context.Background()
	a, b := newPost(), newPost()
	b.RecordID = "2"
	mem := NewMemoryRecords(a, b)

	got, err := mem.Load(ctx, "blog.post", []string{"2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID() != "2" {
		t.Fatalf("Load(ids=[2]) returned %d records", len(got))
	}
	all, _ := mem.Load(ctx, "blog.post", nil)
	if len(all) != 2 {
		t.Fatalf("Load(nil) returned %d records, want 2", len(all))
	}
	if err := all[0].Save(ctx); err != nil {
		t.Fatal(err)
	}
	if mem.Saves != 1 {
		t.Fatalf("Saves = %d, want 1", mem.Saves)
	}
	if _, err := mem.Load(ctx, "shop.product", nil); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestMemoryMessages_QueryOrdered(t *testing.T) {
	mem := NewMemoryMessages(
		&MessageEntry{Key: "b"},
		&MessageEntry{Key: "a"},
		&MessageEntry{Key: "c"},
	)
	got, _ := mem.Query(context.Background(), nil)
	if len(got) != 3 || got[0].ID() != "a" || got[2].ID() != "c" {
		t.Fatalf("Query(nil) not ordered by key")
	}
	sub, _ := mem.Query(context.Background(), []string{"c", "missing"})
	if len(sub) != 1 || sub[0].ID() != "c" {
		t.Fatalf("Query(ids) = %d messages", len(sub))
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(ModelType{Name: "blog.post", Attributes: []string{"title"}})
	if _, err := r.Lookup("blog.post"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Lookup("nope"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	r.Register(ModelType{Name: "a.type"})
	if names := r.Names(); len(names) != 2 || names[0] != "a.type" {
		t.Fatalf("Names() = %v", names)
	}
}
