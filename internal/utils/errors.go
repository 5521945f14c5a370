package utils

import (
	"fmt"
)

// ErrorWithSuggestion wraps an error with a user-friendly suggestion.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface.
func (e *ErrorWithSuggestion) Error() string {
	return fmt.Sprintf("%s\n\nSuggestion: %s", e.Err.Error(), e.Suggestion)
}

// GetSuggestion returns the suggestion text.
func (e *ErrorWithSuggestion) GetSuggestion() string {
	return e.Suggestion
}

// Unwrap returns the underlying error for error chain support.
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WrapWithSuggestion wraps an existing error with a suggestion.
func WrapWithSuggestion(err error, suggestion string) error {
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// ErrInvalidMode returns an error for a mode that is neither todo nor shopping.
func ErrInvalidMode(mode string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid mode: %s", mode),
		Suggestion: "Mode must be 'todo' or 'shopping'",
	}
}

// ErrInvalidPriority returns an error for an invalid priority value.
func ErrInvalidPriority(priority string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid priority: %s", priority),
		Suggestion: "Priority must be 'urgent', 'medium' or 'low'",
	}
}

// ErrListNotFound returns an error for when a list is not found.
func ErrListNotFound(name string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("list not found: %s", name),
		Suggestion: fmt.Sprintf("Create the list with 'listy list create %s'", name),
	}
}

// ErrUnknownProvider returns an error for an unsupported assistant provider.
func ErrUnknownProvider(provider string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("unknown assistant provider: %s", provider),
		Suggestion: "Supported providers: gemini, openai, openrouter",
	}
}

// ErrAPIKeyNotFound returns an error when no API key is configured for a provider.
func ErrAPIKeyNotFound(provider string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("no API key configured for %s", provider),
		Suggestion: fmt.Sprintf("Run 'listy setup %s' to store a key, or set LISTY_%s_API_KEY", provider, envSuffix(provider)),
	}
}

// ErrUnknownSetting returns an error for an unknown settings key.
func ErrUnknownSetting(key string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("unknown setting: %s", key),
		Suggestion: "Valid settings: language, mode, theme_mode, ai_provider",
	}
}
