// Package errors defines the error taxonomy shared by the token store, the
// flattener, the generators and the artifact writer.
//
// Every failure that crosses a package boundary is a *PrismError carrying an
// ErrorType. The type decides how far the failure propagates: a missing token
// document aborts the whole pass, a malformed token or a write failure only
// marks the affected artifact as failed.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeMissingInput   ErrorType = "missing_input"
	ErrorTypeMalformedToken ErrorType = "malformed_token"
	ErrorTypeWrite          ErrorType = "write"
	ErrorTypeConfig         ErrorType = "config"
	ErrorTypeInternal       ErrorType = "internal"
)

// Error codes.
const (
	CodeTokensNotFound   = "TOKENS_NOT_FOUND"
	CodeTokensUnreadable = "TOKENS_UNREADABLE"
	CodeTokensDecode     = "TOKENS_DECODE"
	CodeTokenList        = "TOKEN_LIST"
	CodeTokenNull        = "TOKEN_NULL"
	CodeTokenShape       = "TOKEN_SHAPE"
	CodeTokenDuplicate   = "TOKEN_DUPLICATE"
	CodeFontFamily       = "FONT_FAMILY"
	CodeOutputDir        = "OUTPUT_DIR"
	CodeOutputWrite      = "OUTPUT_WRITE"
	CodeGeneratorPanic   = "GENERATOR_PANIC"
	CodeHandlerPanic     = "HANDLER_PANIC"
	CodeUnknownArtifact  = "UNKNOWN_ARTIFACT"
	CodeConfigInvalid    = "CONFIG_INVALID"
)

// PrismError is a structured error type with context.
type PrismError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Artifact string // generator or output slot the error belongs to
	Path     string // dashed token path or file system path
	Context  map[string]interface{}
}

// Error implements the error interface.
func (e *PrismError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Artifact != "" {
		parts = append(parts, "artifact:"+e.Artifact)
	}

	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *PrismError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *PrismError of the same type. An empty Code
// on the target matches any code.
func (e *PrismError) Is(target error) bool {
	var t *PrismError
	if !errors.As(target, &t) {
		return false
	}

	if e.Type != t.Type {
		return false
	}

	return t.Code == "" || e.Code == t.Code
}

// WithContext adds context information to the error.
func (e *PrismError) WithContext(key string, value interface{}) *PrismError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithArtifact attaches the artifact name.
func (e *PrismError) WithArtifact(name string) *PrismError {
	e.Artifact = name

	return e
}

// WithPath attaches a token path or file path.
func (e *PrismError) WithPath(path string) *PrismError {
	e.Path = path

	return e
}

// Fatal reports whether the error aborts a whole compilation pass rather than
// a single artifact.
func (e *PrismError) Fatal() bool {
	return e.Type == ErrorTypeMissingInput || e.Type == ErrorTypeConfig
}

// NewMissingInputError creates an error for an absent or unreadable token document.
func NewMissingInputError(code, path string, cause error) *PrismError {
	return &PrismError{
		Type:    ErrorTypeMissingInput,
		Code:    code,
		Message: "token document unavailable",
		Cause:   cause,
		Path:    path,
	}
}

// NewMalformedTokenError creates an error for a token value of an unsupported shape.
func NewMalformedTokenError(code, path, message string) *PrismError {
	return &PrismError{
		Type:    ErrorTypeMalformedToken,
		Code:    code,
		Message: message,
		Path:    path,
	}
}

// NewWriteError creates an error for an output that could not be persisted.
func NewWriteError(code, path string, cause error) *PrismError {
	return &PrismError{
		Type:    ErrorTypeWrite,
		Code:    code,
		Message: "cannot write output",
		Cause:   cause,
		Path:    path,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *PrismError {
	return &PrismError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *PrismError {
	return &PrismError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
