package llm

import (
	"regexp"
	"strings"
)

// Local and proxy backends often wrap JSON replies in markdown fences,
// prepend prose, or emit chain-of-thought markup. The helpers here turn
// such replies into something json.Unmarshal will accept. They are shared
// by exercise generation, answer verification, and section evaluation.

var reasoningRe = regexp.MustCompile(`(?s)<think(ing)?>.*?</think(ing)?>`)

// StripReasoning removes <think>...</think> and <thinking>...</thinking>
// regions from a reply. Unclosed reasoning tags drop everything from the
// opening tag onward.
func StripReasoning(s string) string {
	s = reasoningRe.ReplaceAllString(s, "")
	for _, open := range []string{"<think>", "<thinking>"} {
		if i := strings.Index(s, open); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// StripFences removes a leading markdown code fence (with or without a
// language tag) and a trailing fence. Text without fences is returned
// trimmed but otherwise untouched.
func StripFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = s[3:]
		// Drop a language tag such as "json" up to the first newline.
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			firstLine := strings.TrimSpace(s[:nl])
			if firstLine == "" || isFenceTag(firstLine) {
				s = s[nl+1:]
			}
		}
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func isFenceTag(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// ExtractJSONObject returns the outermost {...} region of the reply,
// tolerating surrounding prose and fences. Falls back to the fence-stripped
// text when no braces are found.
func ExtractJSONObject(s string) string {
	return extractDelimited(s, '{', '}')
}

// ExtractJSONArray returns the outermost [...] region of the reply,
// tolerating surrounding prose and fences. Falls back to the fence-stripped
// text when no brackets are found.
func ExtractJSONArray(s string) string {
	return extractDelimited(s, '[', ']')
}

func extractDelimited(s string, opener, closer byte) string {
	s = StripFences(StripReasoning(s))
	start := strings.IndexByte(s, opener)
	end := strings.LastIndexByte(s, closer)
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return strings.TrimSpace(s)
}
