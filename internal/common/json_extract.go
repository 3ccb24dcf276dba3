package common

import (
	"strings"
)

// ExtractJSON strips Markdown code fences from model output and returns the
// enclosed text. Handles ```json and bare ``` fences, unfenced text and
// replies with only an opening or closing fence.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if start := strings.Index(text, "```"); start >= 0 {
		// Lone closing fence after the payload
		if before := strings.TrimSpace(text[:start]); strings.Count(text, "```") == 1 && looksLikeJSON(before) {
			return before
		}

		rest := text[start+3:]
		// Drop the language tag on the opening fence line
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			tag := strings.TrimSpace(rest[:nl])
			if tag == "" || isFenceTag(tag) {
				rest = rest[nl+1:]
			}
		} else {
			rest = strings.TrimPrefix(strings.TrimSpace(rest), "json")
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		text = rest
	}

	return strings.TrimSpace(text)
}

func isFenceTag(tag string) bool {
	for _, r := range tag {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}
