package domain

import (
	"sort"
	"strings"
)

// Kind classifies a domain failure. Each kind maps onto one HTTP status.
type Kind uint8

const (
	KindInvalid       Kind = iota + 1 // malformed input (400)
	KindUnauthorized                  // no or invalid session (401)
	KindForbidden                     // authenticated, not the owner (403)
	KindNotFound                      // resource does not exist (404)
	KindUnprocessable                 // well-formed but rejected (422)
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindUnprocessable:
		return "unprocessable"
	}
	return "unknown"
}

// Error is a domain failure with per-field messages, surfaced to clients
// as {"errors": Fields}.
type Error struct {
	Kind   Kind
	Fields map[string][]string
}

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Fields: map[string][]string{"body": {"Unauthorized"}}}
	ErrNotFound     = &Error{Kind: KindNotFound}
)

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Kind.String()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+strings.Join(e.Fields[k], ", "))
	}
	return e.Kind.String() + ": " + strings.Join(parts, "; ")
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, field, msg string) *Error {
	return &Error{Kind: kind, Fields: map[string][]string{field: {msg}}}
}

// Invalid reports malformed input on field.
func Invalid(field, msg string) *Error { return newError(KindInvalid, field, msg) }

// Forbidden reports an ownership violation.
func Forbidden(msg string) *Error { return newError(KindForbidden, "body", msg) }

// NotFound reports a missing resource.
func NotFound(msg string) *Error { return newError(KindNotFound, "body", msg) }

// Unprocessable reports a request rejected by business rules.
func Unprocessable(field, msg string) *Error { return newError(KindUnprocessable, field, msg) }

// Validation collects per-field messages into a single KindInvalid error.
type Validation map[string][]string

// Add appends msg to field.
func (v Validation) Add(field, msg string) { v[field] = append(v[field], msg) }

// Err returns nil when no messages were collected.
func (v Validation) Err() error {
	if len(v) == 0 {
		return nil
	}
	return &Error{Kind: KindInvalid, Fields: v}
}
