package transcriber

import (
	"context"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/repurpose/internal/logger"
	"github.com/nguyentantai21042004/repurpose/internal/segment"
	"github.com/pemistahl/lingua-go"
)

// sampleRunes bounds how much transcript the detector reads.
const sampleRunes = 4000

type linguaGuard struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// NewLanguageGuard creates a LanguageGuard backed by lingua. The detector
// models are loaded on first use.
func NewLanguageGuard() LanguageGuard {
	return &linguaGuard{}
}

func (g *linguaGuard) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if r := []rune(text); len(r) > sampleRunes {
		text = string(r[:sampleRunes])
	}

	g.once.Do(func() {
		g.detector = lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build()
	})

	lang, ok := g.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

// CheckLanguage detects the language of spans and warns when it differs
// from want. It returns the detected code, or "" when detection was unsure.
func CheckLanguage(ctx context.Context, guard LanguageGuard, log logger.Logger, spans []segment.Span, want string) string {
	if guard == nil {
		return ""
	}
	var b strings.Builder
	for _, sp := range spans {
		if b.Len() >= sampleRunes {
			break
		}
		b.WriteString(sp.Text)
		b.WriteByte(' ')
	}

	got := guard.Detect(b.String())
	if got == "" {
		log.Debug(ctx, "Transcript language could not be determined")
		return ""
	}
	if want != "" && !strings.EqualFold(got, want) {
		log.Warn(ctx, "Transcript language is %q, expected %q; results may be poor", got, want)
	}
	return got
}
