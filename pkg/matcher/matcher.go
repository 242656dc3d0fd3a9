// Package matcher turns recognized speech text into a stored command.
//
// A command matches when its lower-cased label is a substring of the
// normalized input or the normalized input is a substring of the label.
// Commands are scanned in stored order and the first match wins, so with
// append-only storage the oldest eligible command is returned.
package matcher

import (
	"strings"

	"VoiceAssistant/internal/entity"
)

// Normalize trims surrounding whitespace and lower-cases the input. Inner
// whitespace and accents are left alone.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Matches reports whether label matches an input already passed through
// Normalize.
func Matches(label, normalizedInput string) bool {
	if normalizedInput == "" {
		return strings.TrimSpace(label) == ""
	}
	l := strings.ToLower(label)
	return strings.Contains(normalizedInput, l) || strings.Contains(l, normalizedInput)
}

// Match returns the first command matching text.
func Match(commands []entity.Command, text string) (entity.Command, bool) {
	return MatchFunc(commands, text, nil)
}

// MatchFunc is Match restricted to commands accepted by keep. A nil keep
// accepts every command.
func MatchFunc(commands []entity.Command, text string, keep func(entity.Command) bool) (entity.Command, bool) {
	input := Normalize(text)
	for _, cmd := range commands {
		if !Matches(cmd.Text, input) {
			continue
		}
		if keep != nil && !keep(cmd) {
			continue
		}
		return cmd, true
	}
	return entity.Command{}, false
}
