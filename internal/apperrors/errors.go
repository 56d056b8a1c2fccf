package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	KindTransient  Kind = "transient"
	KindRateLimit  Kind = "rate_limit"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindBadRequest Kind = "bad_request"
	KindQuota      Kind = "quota"
	KindConfig     Kind = "config"
)

type Error struct {
	Kind Kind
	// Provider names the remote service that produced the error.
	// Empty for errors raised locally (configuration, validation).
	Provider string
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindTransient:
		return "Temporary upstream error. Please try again."
	case KindRateLimit:
		return "Rate limit exceeded. Please try again later."
	case KindAuth:
		return "Authentication failed. Please verify your API key and permissions."
	case KindValidation:
		return "Validation failed."
	case KindBadRequest:
		return "Request rejected by upstream API."
	case KindQuota:
		return "Translation quota exceeded."
	case KindConfig:
		return "Invalid configuration."
	default:
		return "Request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

// Remote builds an error attributed to a remote provider.
func Remote(provider string, kind Kind, safeMessage string, cause error) error {
	err := New(kind, safeMessage, cause).(*Error)
	err.Provider = provider
	return err
}

func Transient(err error) error {
	return New(KindTransient, "", err)
}

func RateLimit(err error) error {
	return New(KindRateLimit, "", err)
}

func Auth(err error) error {
	return New(KindAuth, "", err)
}

func Validation(err error) error {
	return New(KindValidation, "", err)
}

func BadRequest(err error) error {
	return New(KindBadRequest, "", err)
}

func Config(safeMessage string, err error) error {
	return New(KindConfig, safeMessage, err)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// Detail returns the public message followed by the wrapped cause text.
// Retry classification matches against both.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	parts := []string{e.Error()}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// IsProviderError reports whether err originated from a remote provider.
func IsProviderError(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Provider != ""
}

func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	// Validation covers malformed provider output (e.g. an LLM backend
	// returning the wrong number of items), which may succeed on retry.
	if e.Kind == KindValidation {
		return e.Provider != ""
	}
	return e.Kind == KindTransient || e.Kind == KindRateLimit
}

func IsRateLimit(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindRateLimit
}

func IsFatal(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return false
	}
	var e *Error
	errors.As(err, &e)
	return e.Provider == "" && (kind == KindConfig || kind == KindValidation)
}
