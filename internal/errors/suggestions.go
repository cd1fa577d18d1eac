package errors

import (
	"fmt"
	"strings"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

var suggestionsByCode = map[string][]ErrorSuggestion{
	CodeUnknownLanguage: {
		{
			Title:   "List the supported languages",
			Command: "codex languages",
		},
	},
	"MISSING_TARGET": {
		{
			Title:       "Select a target language",
			Description: "Pass --target or set render.target in the config file",
			Example:     "codex render -t python -i app.bin -o app.py",
		},
	},
	"UNKNOWN_PRESET": {
		{
			Title:       "Use a builtin or configured preset",
			Description: "Builtin presets: csharp, go, java, javascript, kotlin, python, ruby, rust",
			Example:     "presets:\n  web:\n    roots: [\"./web\"]\n    extensions: [\".ts\", \".css\"]",
		},
	},
	"TEMPLATES_INVALID": {
		{
			Title:       "Check the template directory",
			Description: "Every template is named <language>.<suffix> and holds one __SOURCE__ and one __PAYLOAD__ line",
			Command:     "codex validate <dir>",
		},
	},
	"INVALID_CONFIG": {
		{
			Title:       "Fix the configuration",
			Description: "Settings come from flags, CODEX_* environment variables and .codex.yml",
		},
	},
	"INVALID_OUTPUT": {
		{
			Title:       "Write to a file",
			Description: "watch rewrites its output on every change, so it needs -o <file>",
		},
	},
	"NOT_RENDERED": {
		{
			Title:       "Match the extraction settings to the render",
			Description: "Use the same --target, and --compress=false if the program was rendered uncompressed",
		},
	},
	"AMBIGUOUS_PAYLOAD": {
		{
			Title:       "Render with compression",
			Description: "A compressed payload can always be located, even next to inlined sources",
			Command:     "codex render --compress=true ...",
		},
	},
	"SERVER_LISTEN": {
		{
			Title:   "Choose another address",
			Command: "codex serve --addr localhost:0",
		},
	},
}

// Suggest returns suggestions for the first error code in err's chain that
// has any.
func Suggest(err error) []ErrorSuggestion {
	for _, e := range GetErrorChain(err) {
		if ce, ok := e.(*CodexError); ok {
			if s, ok := suggestionsByCode[ce.Code]; ok {
				return s
			}
		}
	}
	return nil
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return ""
	}

	var output strings.Builder
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString(fmt.Sprintf("     Example: %s\n", strings.ReplaceAll(suggestion.Example, "\n", "\n              ")))
		}
	}

	return output.String()
}

// GetErrorChain returns all errors in the chain from outermost to innermost
func GetErrorChain(err error) []error {
	var chain []error
	for err != nil {
		chain = append(chain, err)
		wrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = wrapper.Unwrap()
	}
	return chain
}

// HasErrorCode checks if any error in the chain has the specified code
func HasErrorCode(err error, code string) bool {
	for _, e := range GetErrorChain(err) {
		if ce, ok := e.(*CodexError); ok && ce.Code == code {
			return true
		}
	}
	return false
}
