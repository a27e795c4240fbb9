// Package moderation masks censored words in chat text before it is
// broadcast. Matching is case-insensitive via an Aho-Corasick automaton
// built once at startup.
package moderation

import (
	_ "embed"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"

	chaterrors "chat-relay/errors"
)

//go:embed words.txt
var embeddedWords string

type Moderator struct {
	machine *goahocorasick.Machine
	mask    rune
}

// NewModerator builds the automaton from the word list. Words are
// lowercased; empty entries are skipped.
func NewModerator(words []string, mask rune) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(strings.ToLower(w))
		if w == "" {
			continue
		}
		patterns = append(patterns, []rune(w))
	}
	if len(patterns) == 0 {
		return nil, chaterrors.ErrEmptyWords
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{machine: m, mask: mask}, nil
}

// DefaultWords returns the embedded word list, one word per line.
// Lines starting with '#' are comments.
func DefaultWords() []string {
	var words []string
	for _, line := range strings.Split(embeddedWords, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}

// Censor replaces every occurrence of a censored word with the mask
// rune, preserving the length and spacing of the original text.
func (m *Moderator) Censor(text string) string {
	lowered := []rune(strings.ToLower(text))
	terms := m.machine.MultiPatternSearch(lowered, false)
	if len(terms) == 0 {
		return text
	}

	out := []rune(text)
	for _, term := range terms {
		end := term.Pos + len(term.Word)
		for i := term.Pos; i < end && i < len(out); i++ {
			out[i] = m.mask
		}
	}
	return string(out)
}
