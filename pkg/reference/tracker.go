package reference

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxPartialToken caps how much of an unfinished token a Tracker carries
// between deltas. It comfortably fits "[EVENT_ID:" plus a UUID; a longer
// run of id characters is treated as not being a token.
const maxPartialToken = 128

var partialPattern = regexp.MustCompile(`(?i)^\[(E(V(E(N(T(_(I(D(:[a-f0-9-]*)?)?)?)?)?)?)?)?)?$`)

// Tracker finds reference tokens in a stream of deltas without keeping the
// text. Only the tail that could still become a token is carried across
// Add calls, so memory stays bounded by the number of distinct ids.
type Tracker struct {
	tail  string
	seen  map[string]bool
	ids   []string
	runes int
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]bool)}
}

// Add consumes the next delta.
func (t *Tracker) Add(delta string) {
	t.runes += utf8.RuneCountInString(delta)

	text := t.tail + delta
	end := 0
	for _, m := range tokenPattern.FindAllStringSubmatchIndex(text, -1) {
		id := text[m[2]:m[3]]
		if !t.seen[id] {
			t.seen[id] = true
			t.ids = append(t.ids, id)
		}
		end = m[1]
	}

	t.tail = ""
	rest := text[end:]
	open := strings.LastIndexByte(rest, '[')
	if open < 0 {
		return
	}
	if partial := rest[open:]; len(partial) <= maxPartialToken && partialPattern.MatchString(partial) {
		t.tail = partial
	}
}

// IDs returns the distinct ids seen so far, in order of first occurrence.
func (t *Tracker) IDs() []string {
	if len(t.ids) == 0 {
		return nil
	}
	return append([]string(nil), t.ids...)
}

// Characters returns the number of runes consumed so far.
func (t *Tracker) Characters() int {
	return t.runes
}
