package interview

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable category of an interview error.
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindInvalidState    Kind = "invalid_state"
	KindSessionNotFound Kind = "session_not_found"
	KindNotFound        Kind = "not_found"
	KindUnauthenticated Kind = "unauthenticated"
	KindGeneration      Kind = "generation"
	KindEvaluation      Kind = "evaluation"
	KindPersistence     Kind = "persistence"
	KindInternal        Kind = "internal"
)

// Error carries a Kind so transports can map failures without string matching.
type Error struct {
	Kind    Kind
	Reason  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

func InvalidInput(reason string) error { return &Error{Kind: KindInvalidInput, Reason: reason} }
func InvalidState(reason string) error { return &Error{Kind: KindInvalidState, Reason: reason} }
func NotFound(reason string) error     { return &Error{Kind: KindNotFound, Reason: reason} }

func SessionNotFound() error {
	return &Error{Kind: KindSessionNotFound, Reason: "no active interview session"}
}

func Unauthenticated() error {
	return &Error{Kind: KindUnauthenticated, Reason: "user identity required"}
}

func GenerationFailed(reason string, err error) error {
	return &Error{Kind: KindGeneration, Reason: reason, Wrapped: err}
}

func EvaluationFailed(reason string, err error) error {
	return &Error{Kind: KindEvaluation, Reason: reason, Wrapped: err}
}

func PersistenceFailed(reason string, err error) error {
	return &Error{Kind: KindPersistence, Reason: reason, Wrapped: err}
}

// KindOf reports the Kind of err, or KindInternal for errors that carry none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind anywhere in its chain.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
