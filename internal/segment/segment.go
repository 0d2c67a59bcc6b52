// Package segment holds the canonical timestamped transcript unit and the
// normalisation applied to raw recogniser output before filtering.
package segment

import (
	"errors"
	"strings"
	"time"
)

// DefaultMinWords is the word count below which a span is treated as
// filler ("yeah", "okay, so") and dropped.
const DefaultMinWords = 6

var (
	ErrEmptyText     = errors.New("segment text is empty")
	ErrNegativeStart = errors.New("segment start is negative")
)

// Span is one recognised unit as emitted by a transcription collaborator.
type Span struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

// Segment is an immutable, validated transcript unit.
// End is zero when the collaborator did not report one.
type Segment struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

// New validates and trims a segment.
func New(text string, start, end time.Duration) (Segment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Segment{}, ErrEmptyText
	}
	if start < 0 {
		return Segment{}, ErrNegativeStart
	}
	return Segment{Text: text, Start: start, End: end}, nil
}

// HasEnd reports whether the collaborator supplied an end offset.
func (s Segment) HasEnd() bool {
	return s.End > 0
}

// Words returns the number of whitespace separated words in the text.
func (s Segment) Words() int {
	return len(strings.Fields(s.Text))
}

// Normalize trims every span and keeps the ones with at least minWords words,
// in emission order. Invalid spans are dropped. minWords <= 0 uses
// DefaultMinWords.
func Normalize(spans []Span, minWords int) []Segment {
	if minWords <= 0 {
		minWords = DefaultMinWords
	}

	out := make([]Segment, 0, len(spans))
	for _, sp := range spans {
		seg, err := New(sp.Text, sp.Start, sp.End)
		if err != nil {
			continue
		}
		if seg.Words() < minWords {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// Texts returns the text of each segment, in order.
func Texts(segs []Segment) []string {
	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = s.Text
	}
	return texts
}
