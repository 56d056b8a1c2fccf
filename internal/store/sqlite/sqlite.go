// Package sqlite persists locale-keyed messages and records in a SQLite
// database. It implements store.MessageStore and store.RecordStore.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oukeidos/locsync/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS records (
	type TEXT NOT NULL,
	id TEXT NOT NULL,
	default_locale TEXT NOT NULL,
	data TEXT NOT NULL,
	updated_at DATETIME,
	PRIMARY KEY (type, id)
);
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	type_name TEXT,
	source_locale TEXT NOT NULL,
	target_locale TEXT NOT NULL,
	translated INTEGER NOT NULL,
	skipped_empty INTEGER NOT NULL,
	skipped_existing INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	records_updated INTEGER NOT NULL,
	batches INTEGER NOT NULL,
	failed_batches INTEGER NOT NULL,
	created_at DATETIME
);
`

// DB is a SQLite-backed store.
type DB struct {
	db            *sql.DB
	registry      *store.Registry
	defaultLocale string
}

var (
	_ store.MessageStore = (*DB)(nil)
	_ store.RecordStore  = (*DB)(nil)
)

// Open opens (creating if needed) the database at path and applies the schema.
// defaultLocale is the fallback locale for message lookups.
func Open(path string, registry *store.Registry, defaultLocale string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if registry == nil {
		registry = store.NewRegistry()
	}
	return &DB{db: db, registry: registry, defaultLocale: defaultLocale}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Query implements store.MessageStore.
func (d *DB) Query(ctx context.Context, ids []string) ([]store.Message, error) {
	q := `SELECT id, data FROM messages`
	var args []any
	if ids != nil {
		if len(ids) == 0 {
			return nil, nil
		}
		q += ` WHERE id IN (` + placeholders(len(ids)) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	q += ` ORDER BY id`

	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var out []store.Message
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		data := map[string]string{}
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("message %s has invalid locale data: %w", id, err)
		}
		out = append(out, &store.MessageEntry{Key: id, Data: data, Fallback: d.defaultLocale})
	}
	return out, rows.Err()
}

// Save implements store.MessageStore. Messages are written in one transaction.
func (d *DB) Save(ctx context.Context, messages []store.Message) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, m := range messages {
		raw, err := json.Marshal(m.RawLocaleData())
		if err != nil {
			return fmt.Errorf("failed to encode message %s: %w", m.ID(), err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (id, data, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			m.ID(), string(raw), now); err != nil {
			return fmt.Errorf("failed to save message %s: %w", m.ID(), err)
		}
	}
	return tx.Commit()
}

// Load implements store.RecordStore. Field order and configs come from the registry.
func (d *DB) Load(ctx context.Context, typeName string, ids []string) ([]store.LocalizableRecord, error) {
	mt, err := d.registry.Lookup(typeName)
	if err != nil {
		return nil, err
	}

	q := `SELECT id, default_locale, data FROM records WHERE type = ?`
	args := []any{typeName}
	if ids != nil {
		if len(ids) == 0 {
			return nil, nil
		}
		q += ` AND id IN (` + placeholders(len(ids)) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	q += ` ORDER BY id`

	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var out []store.LocalizableRecord
	for rows.Next() {
		var id, def, raw string
		if err := rows.Scan(&id, &def, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		data := map[string]map[string]string{}
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("record %s/%s has invalid locale data: %w", typeName, id, err)
		}
		out = append(out, &store.Record{
			Type:     typeName,
			RecordID: id,
			Default:  def,
			Order:    mt.Attributes,
			Configs:  mt.Fields,
			Data:     data,
			OnSave:   d.saveRecord,
		})
	}
	return out, rows.Err()
}

func (d *DB) saveRecord(ctx context.Context, r *store.Record) error {
	raw, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("failed to encode record %s/%s: %w", r.Type, r.RecordID, err)
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO records (type, id, default_locale, data, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(type, id) DO UPDATE SET default_locale = excluded.default_locale, data = excluded.data, updated_at = excluded.updated_at`,
		r.Type, r.RecordID, r.Default, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save record %s/%s: %w", r.Type, r.RecordID, err)
	}
	return nil
}

// ImportRecords upserts records as-is.
func (d *DB) ImportRecords(ctx context.Context, records []*store.Record) error {
	for _, r := range records {
		if r.Default == "" {
			r.Default = d.defaultLocale
		}
		if err := d.saveRecord(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// ImportMessages upserts messages as-is.
func (d *DB) ImportMessages(ctx context.Context, messages []*store.MessageEntry) error {
	list := make([]store.Message, len(messages))
	for i, m := range messages {
		list[i] = m
	}
	return d.Save(ctx, list)
}

// Run is one persisted translation run summary.
type Run struct {
	ID              string
	Kind            string
	TypeName        string
	Source          string
	Target          string
	Translated      int
	SkippedEmpty    int
	SkippedExisting int
	Failed          int
	RecordsUpdated  int
	Batches         int
	FailedBatches   int
	CreatedAt       time.Time
}

// SaveRun records a run summary.
func (d *DB) SaveRun(ctx context.Context, r Run) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, type_name, source_locale, target_locale, translated, skipped_empty,
			skipped_existing, failed, records_updated, batches, failed_batches, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Kind, r.TypeName, r.Source, r.Target, r.Translated, r.SkippedEmpty,
		r.SkippedExisting, r.Failed, r.RecordsUpdated, r.Batches, r.FailedBatches, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", r.ID, err)
	}
	return nil
}

// Runs returns the most recent runs first.
func (d *DB) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, kind, COALESCE(type_name, ''), source_locale, target_locale, translated, skipped_empty,
			skipped_existing, failed, records_updated, batches, failed_batches, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Kind, &r.TypeName, &r.Source, &r.Target, &r.Translated, &r.SkippedEmpty,
			&r.SkippedExisting, &r.Failed, &r.RecordsUpdated, &r.Batches, &r.FailedBatches, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
