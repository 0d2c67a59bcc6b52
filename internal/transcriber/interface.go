package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/repurpose/internal/segment"
)

// Transcriber converts a local audio file into ordered timestamped spans.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]segment.Span, error)
}

// LanguageGuard reports the dominant language of a transcript.
type LanguageGuard interface {
	// Detect returns the ISO 639-1 code (lowercase) of text, or "" when unsure.
	Detect(text string) string
}
