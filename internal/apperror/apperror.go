// Package apperror defines the service-wide error taxonomy. Every error that
// crosses a handler boundary carries a Kind so the response layer can map it
// to an HTTP status and a stable machine-readable code.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a stable, machine-readable error category.
type Kind string

const (
	KindMissingCredentials Kind = "missing_credentials"
	KindMalformedToken     Kind = "malformed_token"
	KindExpiredToken       Kind = "expired_token"
	KindBadCredentials     Kind = "bad_credentials"
	KindUnverifiedEmail    Kind = "unverified_email"
	KindNotFound           Kind = "not_found"
	KindValidationFailed   Kind = "validation_failed"
	KindTooManyFiles       Kind = "too_many_files"
	KindFileTooLarge       Kind = "file_too_large"
	KindUploadFailed       Kind = "upload_failed"
	KindTimeout            Kind = "timeout"
	KindRemoteDeleteFailed Kind = "remote_delete_failed"
	KindStoreUnavailable   Kind = "store_unavailable"
	KindInternal           Kind = "internal"
)

// Error is a kind-tagged error. Fields carries optional detail such as the
// list of missing fields on a validation failure.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a kind-tagged error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a kind and message.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithFields attaches field names to the error, used by validation failures.
func (e *Error) WithFields(fields ...string) *Error {
	e.Fields = append(e.Fields, fields...)
	return e
}

// KindOf extracts the Kind from an error chain. Untagged errors report
// KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps a kind to the status code the response layer should use.
// Store and unexpected errors intentionally collapse to 5xx without detail.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindMissingCredentials, KindMalformedToken, KindExpiredToken, KindBadCredentials:
		return http.StatusUnauthorized
	case KindUnverifiedEmail:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidationFailed, KindTooManyFiles, KindFileTooLarge:
		return http.StatusBadRequest
	case KindUploadFailed, KindRemoteDeleteFailed:
		return http.StatusBadGateway
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindStoreUnavailable, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
