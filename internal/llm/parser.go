package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"marketing_engine/internal/domain"
)

var (
	openingFence = regexp.MustCompile("^```(?:json)?\\s*\\n?")
	closingFence = regexp.MustCompile("\\n?```\\s*$")
)

// StripFences removes a markdown code block wrapping the model output, if any.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = openingFence.ReplaceAllString(s, "")
	s = closingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Decode strips fences and unmarshals the remaining JSON into v.
// Any failure is reported as *domain.ParseError.
func Decode(raw string, v any) error {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return &domain.ParseError{Raw: raw, Err: errors.New("empty response")}
	}
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &domain.ParseError{Raw: raw, Err: err}
	}
	return nil
}

// DecodeList accepts either a JSON array or a single object, which is treated as a one-element array.
func DecodeList[T any](raw string) ([]T, error) {
	var msg json.RawMessage
	if err := Decode(raw, &msg); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(msg))
	if strings.HasPrefix(trimmed, "{") {
		var one T
		if err := json.Unmarshal(msg, &one); err != nil {
			return nil, &domain.ParseError{Raw: raw, Err: err}
		}
		return []T{one}, nil
	}

	var many []T
	if err := json.Unmarshal(msg, &many); err != nil {
		return nil, &domain.ParseError{Raw: raw, Err: err}
	}
	return many, nil
}
