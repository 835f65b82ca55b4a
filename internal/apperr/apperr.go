// Package apperr defines the error taxonomy shared by services and handlers.
// Every failure that reaches a caller is an *Error carrying a Kind, so the
// presentation layer can render a specific message instead of a generic 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation"
	KindPermission       Kind = "permission"
	KindDuplicate        Kind = "duplicate"
	KindStoreUnavailable Kind = "store_unavailable"
	KindAlreadyDecided   Kind = "already_decided"
	KindInternal         Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, apperr.ErrNotFound)
// works regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Kind sentinels for errors.Is.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrValidation       = &Error{Kind: KindValidation}
	ErrPermission       = &Error{Kind: KindPermission}
	ErrDuplicate        = &Error{Kind: KindDuplicate}
	ErrStoreUnavailable = &Error{Kind: KindStoreUnavailable}
	ErrAlreadyDecided   = &Error{Kind: KindAlreadyDecided}
)

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Field: field}
}

func Permission(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

func Duplicate(message string) *Error {
	return &Error{Kind: KindDuplicate, Message: message}
}

func StoreUnavailable(cause error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: "data store unavailable", Cause: cause}
}

// AlreadyDecided reports a moderation or review transition attempted on an
// item that has left the pending state.
func AlreadyDecided(entity, status string) *Error {
	return &Error{Kind: KindAlreadyDecided, Message: fmt.Sprintf("%s already %s", entity, status)}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// KindOf returns the kind of err, or KindInternal for errors outside the
// taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool         { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool       { return KindOf(err) == KindValidation }
func IsPermission(err error) bool       { return KindOf(err) == KindPermission }
func IsDuplicate(err error) bool        { return KindOf(err) == KindDuplicate }
func IsStoreUnavailable(err error) bool { return KindOf(err) == KindStoreUnavailable }
func IsAlreadyDecided(err error) bool   { return KindOf(err) == KindAlreadyDecided }

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindPermission:
		return http.StatusForbidden
	case KindDuplicate, KindAlreadyDecided:
		return http.StatusConflict
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to show an end user. Internal errors are
// reduced to a generic message.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}

// FieldOf returns the offending field of a validation error, if any.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
