// Package moderation masks disallowed vocabulary in free text before it is
// persisted to a shared, multi-reader surface (the graffiti wall). Private
// per-player fields are not filtered.
package moderation

import (
	"regexp"
	"strings"
)

// Filter is a compiled denylist. Build one at startup with New and reuse it;
// compilation walks the whole word list.
type Filter struct {
	patterns []*regexp.Regexp
}

// New compiles a filter from the given denylist. Matching is
// case-insensitive and whole-word only: a listed word embedded inside a
// longer word is left untouched.
func New(denylist []string) *Filter {
	f := &Filter{patterns: make([]*regexp.Regexp, 0, len(denylist))}
	for _, word := range denylist {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		f.patterns = append(f.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return f
}

// Apply returns text with every denylisted whole-word match masked: first and
// last character kept, interior replaced with '*'. Words of two characters or
// fewer are fully masked.
func (f *Filter) Apply(text string) string {
	for _, p := range f.patterns {
		text = p.ReplaceAllStringFunc(text, mask)
	}
	return text
}

func mask(word string) string {
	runes := []rune(word)
	if len(runes) <= 2 {
		return strings.Repeat("*", len(runes))
	}
	masked := make([]rune, len(runes))
	masked[0] = runes[0]
	masked[len(runes)-1] = runes[len(runes)-1]
	for i := 1; i < len(runes)-1; i++ {
		masked[i] = '*'
	}
	return string(masked)
}
