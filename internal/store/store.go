// Package store defines the host storage contracts the translation
// pipeline reads from and writes to, plus in-memory implementations.
package store

import (
	"context"
	"errors"

	"github.com/oukeidos/locsync/internal/fieldfilter"
)

// ErrUnknownType is returned when a record type is not registered.
var ErrUnknownType = errors.New("unknown record type")

// LocalizableRecord is a record whose attributes are stored per locale.
type LocalizableRecord interface {
	ID() string
	// FieldOrder lists the declared attributes in form order.
	FieldOrder() []string
	// FieldConfigs returns the declared form config per attribute.
	FieldConfigs() map[string]fieldfilter.FieldConfig
	// DefaultLocale is the locale whose value is the record's base value.
	DefaultLocale() string
	LocaleContext() string
	SetLocaleContext(code string)
	// Attribute reads name in the current locale context, falling back to
	// the default locale when the context has no value.
	Attribute(name string) string
	// AttributeForLocale reads name for locale. With useFallback false an
	// absent value reads as "".
	AttributeForLocale(name, locale string, useFallback bool) string
	SetAttributeForLocale(name, value, locale string)
	Save(ctx context.Context) error
}

// RecordStore loads records of a registered type.
type RecordStore interface {
	// Load returns records of typeName. A nil ids slice loads all records.
	Load(ctx context.Context, typeName string, ids []string) ([]LocalizableRecord, error)
}

// Message is a UI string keyed by locale.
type Message interface {
	ID() string
	// TextForLocale resolves text for code, possibly via fallback.
	TextForLocale(code string) string
	// RawLocaleData is the stored locale → text map without fallback.
	RawLocaleData() map[string]string
	SetLocale(code, text string)
}

// MessageStore queries and persists messages.
type MessageStore interface {
	// Query returns messages by id. A nil ids slice returns all messages.
	Query(ctx context.Context, ids []string) ([]Message, error)
	Save(ctx context.Context, messages []Message) error
}
