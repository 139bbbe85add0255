package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a PrismError if the
// input is not already one. Artifact and path of an inner PrismError are kept.
func Wrap(err error, errType ErrorType, code, message string) *PrismError {
	if err == nil {
		return nil
	}

	var pe *PrismError
	if errors.As(err, &pe) {
		return &PrismError{
			Type:     errType,
			Code:     code,
			Message:  message,
			Cause:    pe,
			Artifact: pe.Artifact,
			Path:     pe.Path,
			Context:  pe.Context,
		}
	}

	return &PrismError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// TypeOf returns the ErrorType of the outermost PrismError in err's chain, or
// ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	var pe *PrismError
	if errors.As(err, &pe) {
		return pe.Type
	}

	return ErrorTypeInternal
}

// IsMissingInput checks if an error reports an unavailable token document.
func IsMissingInput(err error) bool {
	return hasType(err, ErrorTypeMissingInput)
}

// IsMalformedToken checks if an error reports an unsupported token shape.
func IsMalformedToken(err error) bool {
	return hasType(err, ErrorTypeMalformedToken)
}

// IsWrite checks if an error reports an output write failure.
func IsWrite(err error) bool {
	return hasType(err, ErrorTypeWrite)
}

// IsConfig checks if an error is configuration-related.
func IsConfig(err error) bool {
	return hasType(err, ErrorTypeConfig)
}

func hasType(err error, t ErrorType) bool {
	return errors.Is(err, &PrismError{Type: t})
}

// As is a convenience re-export so callers do not need both error packages.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is is a convenience re-export of the standard errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// CodeOf returns the code of the outermost PrismError in err's chain.
func CodeOf(err error) string {
	var pe *PrismError
	if errors.As(err, &pe) {
		return pe.Code
	}

	return ""
}
