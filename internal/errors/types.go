package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeTemplate   ErrorType = "template"
	ErrorTypeSource     ErrorType = "source"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeInternal   ErrorType = "internal"
)

// Template contract violation codes.
const (
	CodeMissingMarker       = "MISSING_MARKER"
	CodeDuplicateMarker     = "DUPLICATE_MARKER"
	CodeMarkerOrder         = "MARKER_ORDER"
	CodeMarkersSameLine     = "MARKERS_SAME_LINE"
	CodeInvalidLanguageName = "INVALID_LANGUAGE_NAME"
	CodeDuplicateLanguage   = "DUPLICATE_LANGUAGE"
	CodeInvalidTemplateName = "INVALID_TEMPLATE_NAME"
	CodeUnknownLanguage     = "UNKNOWN_LANGUAGE"
)

// CodexError is a structured error type with context.
type CodexError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Context  map[string]interface{}
	Language string
	Path     string
}

// Error implements the error interface.
func (e *CodexError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Language != "" {
		parts = append(parts, "language:"+e.Language)
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
func (e *CodexError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *CodexError) Is(target error) bool {
	var t *CodexError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *CodexError) WithContext(key string, value interface{}) *CodexError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath adds the offending file system path.
func (e *CodexError) WithPath(path string) *CodexError {
	e.Path = path

	return e
}

// WithLanguage adds the offending target language.
func (e *CodexError) WithLanguage(language string) *CodexError {
	e.Language = language

	return e
}

// Error creation functions

// NewTemplateError creates a template contract violation for language.
func NewTemplateError(language, code, message string) *CodexError {
	return &CodexError{
		Type:     ErrorTypeTemplate,
		Code:     code,
		Message:  message,
		Language: language,
	}
}

// NewSourceError creates a source collection error for path.
func NewSourceError(path, message string, cause error) *CodexError {
	return &CodexError{
		Type:    ErrorTypeSource,
		Code:    "SOURCE_COLLECTION",
		Message: message,
		Cause:   cause,
		Path:    path,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *CodexError {
	return &CodexError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *CodexError {
	return &CodexError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *CodexError {
	return &CodexError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *CodexError {
	return &CodexError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func isType(err error, errType ErrorType) bool {
	var ce *CodexError
	if errors.As(err, &ce) {
		return ce.Type == errType
	}

	return false
}

// IsTemplateError checks if an error is a template contract violation.
func IsTemplateError(err error) bool {
	return isType(err, ErrorTypeTemplate)
}

// IsSourceError checks if an error happened while collecting source files.
func IsSourceError(err error) bool {
	return isType(err, ErrorTypeSource)
}

// IsIOError checks if an error is I/O-related.
func IsIOError(err error) bool {
	return isType(err, ErrorTypeIO)
}

// IsConfigError checks if an error is configuration-related.
func IsConfigError(err error) bool {
	return isType(err, ErrorTypeConfig)
}

// IsInternalError checks if an error signals a broken internal invariant.
func IsInternalError(err error) bool {
	return isType(err, ErrorTypeInternal)
}

// CodeOf returns the code of the outermost CodexError in err's chain.
func CodeOf(err error) string {
	var ce *CodexError
	if errors.As(err, &ce) {
		return ce.Code
	}

	return ""
}

// LanguageOf returns the first language recorded in err's chain.
func LanguageOf(err error) string {
	for err != nil {
		var ce *CodexError
		if !errors.As(err, &ce) {
			return ""
		}
		if ce.Language != "" {
			return ce.Language
		}
		err = ce.Cause
	}

	return ""
}
