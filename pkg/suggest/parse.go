// Package suggest integrates the external text-completion provider: an
// OpenAI-compatible chat client and the best-effort extraction of a
// suggestion list from whatever free-form text the model returns.
package suggest

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	quotedRe = regexp.MustCompile(`"([^"]+)"|“([^”]+)”|'([^']+)'`)
	bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)、:：]?)\s*`)
)

// ParseSuggestionList recovers a list of short suggestion strings from a
// raw provider response. Strategies run in order of reliability: a direct
// JSON list parse, extraction of the first bracketed segment, splitting
// on lines, and finally collecting quoted substrings. Total failure
// yields an empty list, never an error.
func ParseSuggestionList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if list := parseJSONList(raw); len(list) > 0 {
		return list
	}
	if list := parseBracketed(raw); len(list) > 0 {
		return list
	}
	if list := parseLines(raw); len(list) > 0 {
		return list
	}
	return parseQuoted(raw)
}

// parseJSONList handles the response the prompt actually asks for.
func parseJSONList(raw string) []string {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}
	return cleanList(list)
}

// parseBracketed pulls the first [...] segment out of surrounding prose
// and tries it as JSON, then as a naive comma split.
func parseBracketed(raw string) []string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil
	}
	segment := raw[start : end+1]
	if list := parseJSONList(segment); len(list) > 0 {
		return list
	}
	inner := segment[1 : len(segment)-1]
	parts := strings.Split(inner, ",")
	var list []string
	for _, p := range parts {
		list = append(list, strings.Trim(strings.TrimSpace(p), `"'“”`))
	}
	return cleanList(list)
}

// parseLines treats each non-empty line as one suggestion, stripping
// bullets and numbering.
func parseLines(raw string) []string {
	var list []string
	for _, line := range strings.Split(raw, "\n") {
		line = bulletRe.ReplaceAllString(line, "")
		line = strings.Trim(strings.TrimSpace(line), `"'“”`)
		if line != "" {
			list = append(list, line)
		}
	}
	if len(list) < 2 {
		// A single line is indistinguishable from prose; let the
		// quoted-substring pass have a look first.
		return nil
	}
	return cleanList(list)
}

// parseQuoted collects every quoted substring, the last-resort shape of
// "here are some options: ...".
func parseQuoted(raw string) []string {
	matches := quotedRe.FindAllStringSubmatch(raw, -1)
	var list []string
	for _, m := range matches {
		for _, group := range m[1:] {
			if group != "" {
				list = append(list, group)
			}
		}
	}
	if len(list) == 0 && !strings.ContainsAny(raw, "\n[]") {
		// Bare single-line answer: take it as the one suggestion,
		// stripped of any bullet or numbering like a list line.
		line := bulletRe.ReplaceAllString(raw, "")
		line = strings.Trim(strings.TrimSpace(line), `"'“”`)
		return cleanList([]string{line})
	}
	return cleanList(list)
}

// cleanList trims entries and drops empties and duplicates.
func cleanList(list []string) []string {
	seen := make(map[string]bool, len(list))
	var out []string
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
