// Package filter selects the high-signal segments of a transcript.
//
// Matching is a literal, case-insensitive substring test against a small
// vocabulary. Segments that miss every term are dropped even when they
// matter, and a term inside an unrelated word still counts; in exchange the
// selection is a single O(n) pass with no model inference.
package filter

import (
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/repurpose/internal/segment"
)

// DefaultMaxChars bounds the digest when the caller passes no budget.
const DefaultMaxChars = 3000

// DefaultVocabulary holds the signal terms used when none are configured.
var DefaultVocabulary = Vocabulary{
	"step", "important", "remember", "key", "mistake",
	"note", "first", "second", "finally", "example", "diagram",
}

// Vocabulary is a list of lowercase signal terms.
type Vocabulary []string

// NewVocabulary lowercases and de-duplicates terms, dropping blanks.
// An empty result falls back to DefaultVocabulary.
func NewVocabulary(terms []string) Vocabulary {
	seen := make(map[string]bool, len(terms))
	var v Vocabulary
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		v = append(v, t)
	}
	if len(v) == 0 {
		return DefaultVocabulary
	}
	return v
}

// Matches reports whether text contains any term.
func (v Vocabulary) Matches(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range v {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Select builds the digest: the texts of matching segments, in order, joined
// by single spaces. The digest never exceeds maxChars characters and is only
// ever cut between segments. The scan stops as soon as the budget is reached
// or the next matching segment would not fit.
func Select(segs []segment.Segment, vocab Vocabulary, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if len(vocab) == 0 {
		vocab = DefaultVocabulary
	}

	var b strings.Builder
	length := 0
	for _, seg := range segs {
		if length >= maxChars {
			break
		}
		if !vocab.Matches(seg.Text) {
			continue
		}

		need := utf8.RuneCountInString(seg.Text)
		if length > 0 {
			need++
		}
		if length+need > maxChars {
			break
		}

		if length > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(seg.Text)
		length += need
	}
	return b.String()
}

// Matching returns the segments vocab selects, without a budget.
func Matching(segs []segment.Segment, vocab Vocabulary) []segment.Segment {
	if len(vocab) == 0 {
		vocab = DefaultVocabulary
	}
	var out []segment.Segment
	for _, seg := range segs {
		if vocab.Matches(seg.Text) {
			out = append(out, seg)
		}
	}
	return out
}
