// Package errors defines the error taxonomy shared by every codex component:
// template contract violations, source collection failures, payload I/O
// failures and internal invariant violations.
package errors

import (
	"errors"
	"sync"
)

// ErrorCollector collects errors so that validation can report every
// problem at once instead of stopping at the first one.
type ErrorCollector struct {
	errors []error
	mutex  sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		errors: make([]error, 0),
	}
}

// AddError adds an error to the collector
func (ec *ErrorCollector) AddError(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// GetAllErrors returns all collected errors
func (ec *ErrorCollector) GetAllErrors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	// Return a copy to avoid race conditions
	result := make([]error, len(ec.errors))
	copy(result, ec.errors)
	return result
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors) > 0
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = ec.errors[:0]
}

// GetErrorsByLanguage returns errors recorded against a target language
func (ec *ErrorCollector) GetErrorsByLanguage(language string) []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var languageErrors []error
	for _, err := range ec.errors {
		if LanguageOf(err) == language {
			languageErrors = append(languageErrors, err)
		}
	}
	return languageErrors
}

// Err joins every collected error, or returns nil when there are none
func (ec *ErrorCollector) Err() error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	if len(ec.errors) == 0 {
		return nil
	}
	return errors.Join(ec.errors...)
}
