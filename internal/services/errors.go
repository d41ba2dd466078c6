package services

import (
	"errors"
	"net/http"
)

// Kind classifies a metadata failure for the HTTP boundary.
type Kind int

const (
	// KindUpstream covers network failures, timeouts and non-2xx answers.
	KindUpstream Kind = iota
	KindValidation
	KindNotFound
	KindConfig
)

// Status returns the HTTP status a Kind is surfaced as.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine-readable code carried in the error envelope.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "BAD_REQUEST"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConfig:
		return "NOT_CONFIGURED"
	default:
		return "FETCH_FAILED"
	}
}

// Error is the typed failure returned by MetadataService.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Code()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// ValidationError builds a KindValidation error with msg.
func ValidationError(msg string) *Error {
	return newError(KindValidation, msg, nil)
}

// KindOf returns the Kind of err, KindUpstream for untyped errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUpstream
}
