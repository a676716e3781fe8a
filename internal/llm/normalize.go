package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize flattens the shapes model endpoints return into plain text:
// a bare string, a choices-style envelope, an object carrying the text under
// a well-known attribute, or a list of any of these. Anything else is
// rendered as JSON so the caller's parser still sees the payload.
func Normalize(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case interface{ Text() string }:
		return t.Text()
	case map[string]any:
		if s, ok := fromChoices(t); ok {
			return s
		}
		for _, key := range []string{"generated_text", "content", "text", "response", "output"} {
			if val, ok := t[key]; ok {
				if s := Normalize(val); s != "" {
					return s
				}
			}
		}
	case []any:
		if len(t) > 0 {
			return Normalize(t[0])
		}
		return ""
	case fmt.Stringer:
		return t.String()
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}

func fromChoices(m map[string]any) (string, bool) {
	choices, ok := m["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return Normalize(choices[0]), true
	}
	if msg, ok := first["message"].(map[string]any); ok {
		if content, ok := msg["content"]; ok {
			return strings.TrimSpace(Normalize(content)), true
		}
	}
	for _, key := range []string{"content", "text"} {
		if val, ok := first[key]; ok {
			return strings.TrimSpace(Normalize(val)), true
		}
	}
	return "", false
}
