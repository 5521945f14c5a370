package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorWithSuggestionFormat(t *testing.T) {
	base := errors.New("something broke")
	err := WrapWithSuggestion(base, "try again")

	msg := err.Error()
	if !strings.Contains(msg, "something broke") {
		t.Errorf("message %q missing cause", msg)
	}
	if !strings.Contains(msg, "Suggestion: try again") {
		t.Errorf("message %q missing suggestion", msg)
	}
}

func TestErrorWithSuggestionUnwraps(t *testing.T) {
	base := errors.New("base")
	err := WrapWithSuggestion(base, "hint")

	if !errors.Is(err, base) {
		t.Error("wrapped error not reachable through errors.Is")
	}
}

func TestAPIKeyNotFoundNamesEnvVar(t *testing.T) {
	err := ErrAPIKeyNotFound("openrouter")
	msg := err.Error()
	if !strings.Contains(msg, "LISTY_OPENROUTER_API_KEY") {
		t.Errorf("message %q missing environment variable name", msg)
	}
	if !strings.Contains(msg, "listy setup openrouter") {
		t.Errorf("message %q missing setup hint", msg)
	}
}
