package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/oukeidos/locsync/internal/fieldfilter"
)

// Record is a concrete LocalizableRecord backed by an attribute → locale → value map.
type Record struct {
	Type     string
	RecordID string
	Default  string
	Order    []string
	Configs  map[string]fieldfilter.FieldConfig
	Data     map[string]map[string]string

	locale string
	// OnSave persists the record; nil makes Save a no-op.
	OnSave func(ctx context.Context, r *Record) error
}

var _ LocalizableRecord = (*Record)(nil)

func (r *Record) ID() string { return r.RecordID }

func (r *Record) FieldOrder() []string { return r.Order }

func (r *Record) FieldConfigs() map[string]fieldfilter.FieldConfig { return r.Configs }

func (r *Record) DefaultLocale() string { return r.Default }

func (r *Record) LocaleContext() string {
	if r.locale == "" {
		return r.Default
	}
	return r.locale
}

func (r *Record) SetLocaleContext(code string) { r.locale = code }

func (r *Record) Attribute(name string) string {
	return r.AttributeForLocale(name, r.LocaleContext(), true)
}

func (r *Record) AttributeForLocale(name, locale string, useFallback bool) string {
	values := r.Data[name]
	if v := values[locale]; v != "" {
		return v
	}
	if useFallback && locale != r.Default {
		return values[r.Default]
	}
	return ""
}

func (r *Record) SetAttributeForLocale(name, value, locale string) {
	if r.Data == nil {
		r.Data = make(map[string]map[string]string)
	}
	if r.Data[name] == nil {
		r.Data[name] = make(map[string]string)
	}
	r.Data[name][locale] = value
}

func (r *Record) Save(ctx context.Context) error {
	if r.OnSave == nil {
		return nil
	}
	return r.OnSave(ctx, r)
}

// MessageEntry is a concrete Message.
type MessageEntry struct {
	Key  string
	Data map[string]string
	// Fallback is the locale TextForLocale resolves to when code is absent.
	Fallback string
}

var _ Message = (*MessageEntry)(nil)

func (m *MessageEntry) ID() string { return m.Key }

func (m *MessageEntry) TextForLocale(code string) string {
	if v := m.Data[code]; v != "" {
		return v
	}
	if m.Fallback != "" {
		return m.Data[m.Fallback]
	}
	return ""
}

func (m *MessageEntry) RawLocaleData() map[string]string { return m.Data }

func (m *MessageEntry) SetLocale(code, text string) {
	if m.Data == nil {
		m.Data = make(map[string]string)
	}
	m.Data[code] = text
}

// MemoryRecords is an in-process RecordStore.
type MemoryRecords struct {
	mu      sync.Mutex
	records map[string][]*Record
	Saves   int
}

func NewMemoryRecords(records ...*Record) *MemoryRecords {
	m := &MemoryRecords{records: make(map[string][]*Record)}
	for _, r := range records {
		m.Add(r)
	}
	return m
}

func (m *MemoryRecords) Add(r *Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.OnSave == nil {
		r.OnSave = func(context.Context, *Record) error {
			m.mu.Lock()
			m.Saves++
			m.mu.Unlock()
			return nil
		}
	}
	m.records[r.Type] = append(m.records[r.Type], r)
}

func (m *MemoryRecords) Load(_ context.Context, typeName string, ids []string) ([]LocalizableRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all, ok := m.records[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}
	want := idSet(ids)
	var out []LocalizableRecord
	for _, r := range all {
		if want == nil || want[r.RecordID] {
			out = append(out, r)
		}
	}
	return out, nil
}

// MemoryMessages is an in-process MessageStore ordered by key.
type MemoryMessages struct {
	mu       sync.Mutex
	messages map[string]*MessageEntry
	Saves    int
}

func NewMemoryMessages(messages ...*MessageEntry) *MemoryMessages {
	m := &MemoryMessages{messages: make(map[string]*MessageEntry)}
	for _, msg := range messages {
		m.messages[msg.Key] = msg
	}
	return m
}

func (m *MemoryMessages) Get(key string) *MessageEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages[key]
}

func (m *MemoryMessages) Query(_ context.Context, ids []string) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.messages))
	for k := range m.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	want := idSet(ids)
	var out []Message
	for _, k := range keys {
		if want == nil || want[k] {
			out = append(out, m.messages[k])
		}
	}
	return out, nil
}

func (m *MemoryMessages) Save(_ context.Context, messages []Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range messages {
		entry, ok := msg.(*MessageEntry)
		if !ok {
			return fmt.Errorf("unsupported message type %T", msg)
		}
		m.messages[entry.Key] = entry
	}
	m.Saves++
	return nil
}

func idSet(ids []string) map[string]bool {
	if ids == nil {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
