package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a CodexError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *CodexError {
	if err == nil {
		return nil
	}

	// Keep language and path from an inner CodexError so the outer message still names them
	var ce *CodexError
	if errors.As(err, &ce) {
		return &CodexError{
			Type:     errType,
			Code:     code,
			Message:  message,
			Cause:    ce,
			Context:  ce.Context,
			Language: ce.Language,
			Path:     ce.Path,
		}
	}

	return &CodexError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *CodexError {
	return Wrap(err, ErrorTypeIO, code, message)
}

// WrapSource wraps an error raised while collecting path
func WrapSource(err error, path, message string) *CodexError {
	wrapped := Wrap(err, ErrorTypeSource, "SOURCE_COLLECTION", message)
	if wrapped != nil {
		wrapped.Path = path
	}
	return wrapped
}

// WrapTemplate wraps an error raised while reading or compiling a template
func WrapTemplate(err error, code, message string) *CodexError {
	return Wrap(err, ErrorTypeTemplate, code, message)
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *CodexError {
	return Wrap(err, ErrorTypeConfig, code, message)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(err error, code, message string) *CodexError {
	return Wrap(err, ErrorTypeInternal, code, message)
}

// FormatError formats an error for user display
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var ce *CodexError
	if errors.As(err, &ce) {
		return ce.Error()
	}

	return err.Error()
}

// GetErrorContext extracts context information from a CodexError
func GetErrorContext(err error) map[string]interface{} {
	var ce *CodexError
	if errors.As(err, &ce) {
		context := make(map[string]interface{})
		for k, v := range ce.Context {
			context[k] = v
		}
		if ce.Language != "" {
			context["language"] = ce.Language
		}
		if ce.Path != "" {
			context["path"] = ce.Path
		}
		context["type"] = string(ce.Type)
		context["code"] = ce.Code
		return context
	}

	return map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}
}

// WrapValidation wraps an error as a validation error
func WrapValidation(err error, code, message string) *CodexError {
	return Wrap(err, ErrorTypeValidation, code, message)
}
