// Package apperr defines the error taxonomy shared by the service layer and
// the HTTP boundary. Every anticipated failure carries a Kind that maps to a
// stable error code and status; anything else falls through as an internal
// error.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// NotFound covers both a missing row and a row whose file is gone from disk.
	NotFound Kind = iota
	// Forbidden is an owner mismatch on the resolved resource.
	Forbidden
	InvalidInput
	// TranscodeFailed is recoverable and must be absorbed by the ingestion
	// orchestrator; it never maps to an HTTP response.
	TranscodeFailed
	// AnalysisUnavailable means the capability is not wired at all.
	AnalysisUnavailable
	// AnalysisFailed means the capability is wired but errored on this input.
	AnalysisFailed
	UploadRejected
	Internal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err, or Internal when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// Code returns the stable error code written into the response envelope.
func (k Kind) Code() string {
	switch k {
	case NotFound:
		return "NOT_FOUND"
	case Forbidden:
		return "FORBIDDEN"
	case InvalidInput:
		return "INVALID_INPUT"
	case TranscodeFailed:
		return "TRANSCODE_FAILED"
	case AnalysisUnavailable:
		return "ANALYSIS_UNAVAILABLE"
	case AnalysisFailed:
		return "ANALYSIS_FAILED"
	case UploadRejected:
		return "UPLOAD_REJECTED"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus maps a kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	case InvalidInput, UploadRejected:
		return http.StatusBadRequest
	case AnalysisUnavailable:
		return http.StatusServiceUnavailable
	case AnalysisFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
