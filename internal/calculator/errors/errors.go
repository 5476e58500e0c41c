package errs

import (
	"errors"
	"fmt"
)

var (
	ErrParse  = errors.New("invalid expression format")
	ErrDomain = errors.New("division by zero or invalid operation")
)

type Kind int

const (
	KindUnknown Kind = iota
	KindParse
	KindDomain
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindDomain:
		return "domain"
	default:
		return "unknown"
	}
}

// ParseKind maps the String form of a Kind back to the Kind.
func ParseKind(s string) Kind {
	switch s {
	case "parse":
		return KindParse
	case "domain":
		return KindDomain
	default:
		return KindUnknown
	}
}

// EvaluationError is returned for every failed evaluation. It unwraps to
// ErrParse or ErrDomain depending on Kind.
type EvaluationError struct {
	Kind Kind
	// Pos is the byte offset in the input that caused the error, or -1.
	Pos    int
	Reason string
}

func (e *EvaluationError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s: %s at position %d", e.sentinel(), e.Reason, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.sentinel(), e.Reason)
}

func (e *EvaluationError) Unwrap() error {
	return e.sentinel()
}

func (e *EvaluationError) sentinel() error {
	if e.Kind == KindDomain {
		return ErrDomain
	}
	return ErrParse
}

func Parsef(pos int, format string, args ...interface{}) error {
	return &EvaluationError{Kind: KindParse, Pos: pos, Reason: fmt.Sprintf(format, args...)}
}

func Domainf(format string, args ...interface{}) error {
	return &EvaluationError{Kind: KindDomain, Pos: -1, Reason: fmt.Sprintf(format, args...)}
}

// KindOf reports the evaluation error kind carried by err.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrDomain):
		return KindDomain
	default:
		return KindUnknown
	}
}

// Message renders err for an end user.
func Message(err error) string {
	switch KindOf(err) {
	case KindParse:
		return ErrParse.Error()
	case KindDomain:
		return ErrDomain.Error()
	default:
		return err.Error()
	}
}
