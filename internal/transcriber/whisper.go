package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/repurpose/internal/segment"
)

// Transcribe runs whisper.cpp with SRT output and parses the result
func (w *implWhisper) Transcribe(ctx context.Context, audioPath string) ([]segment.Span, error) {
	// Whisper appends .srt to the prefix
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	w.logger.Info(ctx, "Starting transcription with %d threads: %s", w.cfg.Threads, audioPath)

	// -osrt: SRT output
	// -l: force language (prevents hallucination)
	// -ml 0 / -mc 0: no segment length or context limit
	// -bo 5: best of 5
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-osrt",
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-ml", "0",
		"-mc", "0",
		"-bo", "5",
		"--output-file", outputPrefix,
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}

	srtPath := outputPrefix + ".srt"
	f, err := os.Open(srtPath)
	if err != nil {
		return nil, fmt.Errorf("open whisper output: %w", err)
	}
	defer f.Close()

	spans, err := segment.ParseSRT(f)
	if err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	w.logger.Info(ctx, "Transcription completed: %d spans", len(spans))
	return spans, nil
}
