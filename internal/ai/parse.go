package ai

import (
	"errors"
	"regexp"
	"strings"
)

var (
	fencePattern  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	labelPattern  = regexp.MustCompile(`(?i)^(description|sales description)\s*:\s*`)
	spacesPattern = regexp.MustCompile(`[ \t]+`)
	ErrEmptyText  = errors.New("empty_text")
)

// NormalizeDescription cleans model output into plain listing text: it drops
// a surrounding code fence, a leading "Description:" label, wrapping quotes
// and runs of spaces. Emojis and line breaks are kept.
func NormalizeDescription(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(text); len(m) == 2 {
		text = strings.TrimSpace(m[1])
	}
	text = labelPattern.ReplaceAllString(text, "")
	for _, q := range []string{`"`, "'", "“"} {
		closing := q
		if q == "“" {
			closing = "”"
		}
		if len(text) >= 2 && strings.HasPrefix(text, q) && strings.HasSuffix(text, closing) {
			text = strings.TrimSpace(text[len(q) : len(text)-len(closing)])
		}
	}
	text = spacesPattern.ReplaceAllString(text, " ")
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}
