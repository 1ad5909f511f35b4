package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FailKind classifies why a single provider attempt failed.
type FailKind string

const (
	FailAuth        FailKind = "auth-error"
	FailRateLimited FailKind = "rate-limited"
	FailMalformed   FailKind = "malformed-envelope"
	FailTransport   FailKind = "transport-error"
	FailUnknown     FailKind = "unknown"
)

// AttemptError is the typed failure adapters return instead of partial
// or garbage text.
type AttemptError struct {
	Kind FailKind
	Msg  string
	Err  error
}

func (e *AttemptError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// Failf builds an AttemptError with a formatted message.
func Failf(kind FailKind, format string, args ...any) *AttemptError {
	return &AttemptError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Failw wraps an underlying error with a failure kind.
func Failw(kind FailKind, msg string, err error) *AttemptError {
	return &AttemptError{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the failure kind from an adapter error. Context
// deadline errors count as transport failures; anything untyped is
// unknown.
func KindOf(err error) FailKind {
	var ae *AttemptError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailTransport
	}
	return FailUnknown
}

// ExhaustedError is returned when every configured provider failed. It
// carries one attempt record per provider, in attempt order.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "llm: no usable providers configured"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s (%s)", a.Provider, a.Kind))
	}
	return "llm: all providers failed: " + strings.Join(parts, ", ")
}
