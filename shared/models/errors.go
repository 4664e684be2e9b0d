package models

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies failures of the turn-continuation pipeline.
type ErrorKind string

const (
	KindInput    ErrorKind = "input"    // caller sent a malformed request
	KindUpstream ErrorKind = "upstream" // the model call itself failed
	KindParse    ErrorKind = "parse"    // the model answered, but not with JSON
	KindSchema   ErrorKind = "schema"   // the model answered JSON without a usable story
	KindInternal ErrorKind = "internal"
)

// Sentinels for errors.Is checks. A *TurnError matches the sentinel of its kind.
var (
	ErrInput    = errors.New("invalid input")
	ErrUpstream = errors.New("upstream model failure")
	ErrParse    = errors.New("model output parse failure")
	ErrSchema   = errors.New("model output schema violation")
	ErrInternal = errors.New("internal error")
)

var kindSentinels = map[ErrorKind]error{
	KindInput:    ErrInput,
	KindUpstream: ErrUpstream,
	KindParse:    ErrParse,
	KindSchema:   ErrSchema,
	KindInternal: ErrInternal,
}

// TurnError is the typed error crossing the relay boundary.
type TurnError struct {
	Kind    ErrorKind
	Message string
	// Raw holds the model output for diagnostics. It is logged, never sent to clients.
	Raw string
	Err error
}

func (e *TurnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *TurnError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// Retryable reports whether resubmitting the same action can succeed.
func (e *TurnError) Retryable() bool {
	switch e.Kind {
	case KindUpstream, KindParse, KindSchema:
		return true
	default:
		return false
	}
}

// Timeout reports whether the error was caused by an expired deadline.
func (e *TurnError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

func NewInputError(message string) *TurnError {
	return &TurnError{Kind: KindInput, Message: message}
}

func NewUpstreamError(message string, err error) *TurnError {
	return &TurnError{Kind: KindUpstream, Message: message, Err: err}
}

func NewParseError(message, raw string, err error) *TurnError {
	return &TurnError{Kind: KindParse, Message: message, Raw: raw, Err: err}
}

func NewSchemaError(message, raw string) *TurnError {
	return &TurnError{Kind: KindSchema, Message: message, Raw: raw}
}

func NewInternalError(message string, err error) *TurnError {
	return &TurnError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf classifies any error. Errors that are not *TurnError are internal.
func KindOf(err error) ErrorKind {
	var turnErr *TurnError
	if errors.As(err, &turnErr) {
		return turnErr.Kind
	}
	return KindInternal
}

// ParseErrorKind maps the wire code back to a kind. Unknown codes are internal.
func ParseErrorKind(code string) ErrorKind {
	kind := ErrorKind(code)
	if _, ok := kindSentinels[kind]; ok {
		return kind
	}
	return KindInternal
}
