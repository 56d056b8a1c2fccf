package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/oukeidos/locsync/internal/fieldfilter"
	"github.com/oukeidos/locsync/internal/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	reg := store.NewRegistry(store.ModelType{
		Name:       "blog.post",
		Attributes: []string{"title", "content"},
		Fields: map[string]fieldfilter.FieldConfig{
			"title":   {Type: "text"},
			"content": {Type: "richeditor"},
		},
	})
	db, err := Open(filepath.Join(t.TempDir(), "locsync.db"), reg, "en")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMessages_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := db.ImportMessages(ctx, []*store.MessageEntry{
		{Key: "nav.home", Data: map[string]string{"en": "Home"}},
		{Key: "nav.about", Data: map[string]string{"en": "About", "de": "Über"}},
	})
	if err != nil {
		t.Fatalf("ImportMessages failed: %v", err)
	}

	msgs, err := db.Query(ctx, nil)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(msgs) != 2 || msgs[0].ID() != "nav.about" {
		t.Fatalf("unexpected messages: %d", len(msgs))
	}
	if got := msgs[1].TextForLocale("de"); got != "Home" {
		t.Fatalf("fallback text = %q, want %q", got, "Home")
	}

	msgs[1].SetLocale("de", "Startseite")
	if err := db.Save(ctx, msgs[1:]); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	again, _ := db.Query(ctx, []string{"nav.home"})
	if len(again) != 1 || again[0].RawLocaleData()["de"] != "Startseite" {
		t.Fatalf("saved translation not persisted: %+v", again)
	}

	none, _ := db.Query(ctx, []string{})
	if len(none) != 0 {
		t.Fatalf("empty id filter should return nothing")
	}
}

func TestRecords_LoadAndSave(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := db.ImportRecords(ctx, []*store.Record{
		{Type: "blog.post", RecordID: "1", Data: map[string]map[string]string{"title": {"en": "Hello"}}},
		{Type: "blog.post", RecordID: "2", Default: "fr", Data: map[string]map[string]string{"title": {"fr": "Salut"}}},
	})
	if err != nil {
		t.Fatalf("ImportRecords failed: %v", err)
	}

	recs, err := db.Load(ctx, "blog.post", []string{"1"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.DefaultLocale() != "en" || len(r.FieldOrder()) != 2 {
		t.Fatalf("record metadata not populated from registry")
	}
	r.SetAttributeForLocale("title", "Hallo", "de")
	if err := r.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, _ := db.Load(ctx, "blog.post", nil)
	if len(reloaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(reloaded))
	}
	if got := reloaded[0].AttributeForLocale("title", "de", false); got != "Hallo" {
		t.Fatalf("persisted translation = %q, want %q", got, "Hallo")
	}
	if got := reloaded[1].DefaultLocale(); got != "fr" {
		t.Fatalf("default locale = %q, want fr", got)
	}

	if _, err := db.Load(ctx, "shop.product", nil); !errors.Is(err, store.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	if err := db.SaveRun(ctx, Run{ID: "run-1", Kind: "messages", Source: "en", Target: "de", Translated: 3}); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	runs, err := db.Runs(ctx, 5)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Translated != 3 || runs[0].Target != "de" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}
