package media

import "context"

// Acquirer turns a submitted source into local media and prepares it for
// transcription.
type Acquirer interface {
	// Acquire fetches link or inspects upload (upload wins when both are set)
	// and places remote downloads under dir.
	Acquire(ctx context.Context, link, upload, dir string) (Media, error)
	// ExtractAudio converts m to 16kHz mono WAV under dir and returns its path.
	ExtractAudio(ctx context.Context, m Media, dir string) (string, error)
}
