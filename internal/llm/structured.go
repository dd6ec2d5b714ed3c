package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator validates a parsed struct after JSON extraction.
// Returns nil if valid, or a descriptive error if invalid.
type SchemaValidator[T any] func(T) error

// ExtractJSON parses a JSON object of type T from raw model output. Markdown
// code fences around the payload are stripped first; the model is instructed
// not to use them but does anyway often enough to warrant the unwrap. A parse
// or validation failure returns a *ParseError that carries the raw text.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	cleaned := StripCodeFence(raw)

	var result T
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return zero, &ParseError{Raw: raw, Err: fmt.Errorf("%w: %v", ErrInvalidOutput, err)}
	}

	if validator != nil {
		if err := validator(result); err != nil {
			return zero, &ParseError{Raw: raw, Err: fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)}
		}
	}

	return result, nil
}

// StripCodeFence removes a single leading/trailing triple-backtick fence
// (with or without a language tag) around the payload. No other markdown
// unwrapping is attempted.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		rest := s[3:]
		// Drop a language tag such as "json" on the opening fence line.
		if idx := strings.IndexByte(rest, '\n'); idx != -1 {
			firstLine := strings.TrimSpace(rest[:idx])
			if firstLine == "" || isLanguageTag(firstLine) {
				rest = rest[idx+1:]
			}
		}
		s = rest
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return len(s) > 0
}
