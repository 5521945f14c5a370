package utils

import (
	"strings"
)

// validPriorities maps accepted priority spellings to their canonical form.
var validPriorities = map[string]string{
	"urgent": "urgent",
	"medium": "medium",
	"low":    "low",
}

// validModes maps accepted mode spellings to their canonical form.
var validModes = map[string]string{
	"todo":     "todo",
	"shopping": "shopping",
}

// ParsePriority validates and canonicalizes a priority flag value.
// The empty string defaults to "medium".
func ParsePriority(priority string) (string, error) {
	if priority == "" {
		return "medium", nil
	}
	if p, ok := validPriorities[strings.ToLower(priority)]; ok {
		return p, nil
	}
	return "", ErrInvalidPriority(priority)
}

// ParseMode validates and canonicalizes a mode flag value. The empty
// string is returned as-is so callers can fall back to the settings value.
func ParseMode(mode string) (string, error) {
	if mode == "" {
		return "", nil
	}
	if m, ok := validModes[strings.ToLower(mode)]; ok {
		return m, nil
	}
	return "", ErrInvalidMode(mode)
}

// envSuffix converts a provider id to the form used in environment
// variable names ("openrouter" -> "OPENROUTER").
func envSuffix(provider string) string {
	return strings.ToUpper(strings.TrimSpace(provider))
}
