package chatcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/planora/planora/pkg/reference"
)

// liveText prints a streaming answer as it grows. Reference tokens are
// never shown: completed tokens are stripped, and text from an unclosed
// "[" onward is held back until the bracket closes.
type liveText struct {
	w       io.Writer
	printed string
}

func (l *liveText) update(raw string) {
	visible := holdOpenBracket(reference.Strip(raw))
	if !strings.HasPrefix(visible, l.printed) {
		return
	}
	fmt.Fprint(l.w, visible[len(l.printed):])
	l.printed = visible
}

// finish prints whatever of the final display text has not been shown.
func (l *liveText) finish(content string) {
	if strings.HasPrefix(content, l.printed) {
		fmt.Fprint(l.w, content[len(l.printed):])
	} else {
		fmt.Fprint(l.w, "\n"+content)
	}
	l.printed = content
}

func holdOpenBracket(s string) string {
	i := strings.LastIndex(s, "[")
	if i < 0 || strings.Contains(s[i:], "]") {
		return s
	}
	return s[:i]
}
