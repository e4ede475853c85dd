package parser

import (
	"errors"
	"strings"

	"github.com/rudazy/warden-yield-agent/internal/state"
)

// ErrEmptyInput is returned when no usable text exists anywhere in the
// inbound payload. It is the one fatal-for-the-pipeline condition in this
// package.
var ErrEmptyInput = errors.New("no query provided")

// Normalize converges the heterogeneous inbound payload shapes to a single
// plain-text query string. The explicit query field wins when non-empty;
// otherwise the text content of the last history entry is extracted.
// Unknown shapes are skipped, never rejected.
func Normalize(query string, history []any) (string, error) {
	if q := strings.TrimSpace(query); q != "" {
		return q, nil
	}
	if len(history) == 0 {
		return "", ErrEmptyInput
	}

	content := messageContent(history[len(history)-1])
	q := strings.TrimSpace(flattenContent(content))
	if q == "" {
		return "", ErrEmptyInput
	}
	return q, nil
}

// messageContent pulls the content value out of a history entry, supporting
// both the typed message shape and a raw mapping with a "content" key.
func messageContent(entry any) any {
	switch m := entry.(type) {
	case state.Message:
		return m.Content
	case *state.Message:
		if m == nil {
			return nil
		}
		return m.Content
	case map[string]any:
		return m["content"]
	default:
		return nil
	}
}

// flattenContent joins the text fragments of a content value with single
// spaces. Plain strings pass through verbatim; list-of-parts content keeps
// string parts and the text field of parts whose type is "text"; everything
// else contributes nothing.
func flattenContent(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case []any:
		fragments := make([]string, 0, len(v))
		for _, part := range v {
			switch p := part.(type) {
			case string:
				fragments = append(fragments, p)
			case map[string]any:
				if t, _ := p["type"].(string); t == "text" {
					if text, ok := p["text"].(string); ok {
						fragments = append(fragments, text)
					}
				}
			}
		}
		return strings.Join(fragments, " ")
	default:
		return ""
	}
}
