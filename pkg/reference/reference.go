// Package reference extracts event reference tokens from assistant text.
//
// A token has the form [EVENT_ID:<id>] where id is one or more characters
// from [a-f0-9-], matched case-insensitively. Tokens are found anywhere in
// the text, including mid-sentence. Extraction always runs over the full
// accumulated text, so a token split across stream deltas is found once
// both halves have arrived.
package reference

import "regexp"

var tokenPattern = regexp.MustCompile(`(?i)\[EVENT_ID:([a-f0-9-]+)\]`)

// Extract returns the distinct ids referenced in text, in order of first
// occurrence. Ids are returned as written.
func Extract(text string) []string {
	matches := tokenPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Strip removes every reference token from text. Nothing else changes.
func Strip(text string) string {
	return tokenPattern.ReplaceAllString(text, "")
}
