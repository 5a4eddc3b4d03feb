package discovery

import "strings"

// stripFences removes a surrounding markdown code fence, if present.
// Research responses frequently wrap their JSON payload in ```json blocks.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// firstJSONArray returns the first syntactically balanced JSON array
// substring of text, or "" if none exists.
func firstJSONArray(text string) string {
	return firstBalanced(stripFences(text), '[', ']')
}

// firstJSONObject returns the first syntactically balanced JSON object
// substring of text, or "" if none exists.
func firstJSONObject(text string) string {
	return firstBalanced(stripFences(text), '{', '}')
}

// firstBalanced scans text for the first balanced open..close span,
// tracking JSON string literals so brackets inside strings do not count.
func firstBalanced(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
