package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ExtractAudio converts the media to 16kHz mono WAV, the input format whisper expects
func (a *implAcquirer) ExtractAudio(ctx context.Context, m Media, dir string) (string, error) {
	if m.Kind == KindSubtitle {
		return "", fmt.Errorf("extract audio: %s is a subtitle file", m.Path)
	}

	mediaDir := filepath.Join(dir, "media")
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	audioPath := filepath.Join(mediaDir, "audio_16k.wav")

	a.logger.Info(ctx, "Extracting audio: %s", m.Path)

	// -vn: drop video
	// -ar 16000 -ac 1: 16kHz mono
	// -c:a pcm_s16le: uncompressed 16-bit PCM
	args := []string{
		"-i", m.Path,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := a.executor.Execute(ctx, a.cfg.FFmpegPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	a.logger.Debug(ctx, "Audio extracted: %s", audioPath)
	return audioPath, nil
}
