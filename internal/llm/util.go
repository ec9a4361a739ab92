package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock extracts the JSON payload from a model response. It strips
// Markdown code fences (```json or bare ```), skips conversational text
// before the payload and drops anything after it. When no JSON value can be
// located the trimmed input is returned unchanged.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if inner, ok := stripFence(text); ok {
		text = inner
	}
	if text == "" {
		return text
	}

	first := ""
	for i := 0; i < len(text); i++ {
		if text[i] != '{' && text[i] != '[' {
			continue
		}
		candidate := extractBalanced(text[i:])
		if candidate == "" {
			continue
		}
		if json.Valid([]byte(candidate)) {
			return candidate
		}
		if first == "" {
			first = candidate
		}
	}
	if first != "" {
		return first
	}
	return text
}

// stripFence returns the contents of the first fenced block in text.
func stripFence(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return text, false
	}
	body := text[start+3:]
	// Skip a language identifier on the opening line.
	if idx := strings.Index(body, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(body[:idx])
		if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
			body = body[idx+1:]
		}
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body), true
}

// extractBalanced scans from the opening bracket at s[0] to its matching
// closer, ignoring brackets inside string literals.
func extractBalanced(s string) string {
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
