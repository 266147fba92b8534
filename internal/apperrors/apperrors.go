// Package apperrors defines the error taxonomy surfaced at the HTTP
// boundary. Every service failure is classified by kind so handlers can map
// it to a status code without inspecting messages.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindAuth        Kind = "auth"
	KindForbidden   Kind = "forbidden"
	KindConflict    Kind = "conflict"
	KindUpstream    Kind = "upstream"
	KindSignature   Kind = "signature"
	KindPersistence Kind = "persistence"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validation(msg string) *Error  { return New(KindValidation, msg) }
func NotFound(msg string) *Error    { return New(KindNotFound, msg) }
func Auth(msg string) *Error        { return New(KindAuth, msg) }
func Forbidden(msg string) *Error   { return New(KindForbidden, msg) }
func Conflict(msg string) *Error    { return New(KindConflict, msg) }
func Upstream(msg string) *Error    { return New(KindUpstream, msg) }
func Signature(msg string) *Error   { return New(KindSignature, msg) }
func Persistence(msg string) *Error { return New(KindPersistence, msg) }

// KindOf returns the kind of err, or "" for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps an error to the response code the boundary should use.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth, KindSignature:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
