package frames

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nguyentantai21042004/repurpose/internal/media"
	"github.com/nguyentantai21042004/repurpose/internal/segment"
)

// Select grabs one frame at the start of each vocabulary-matching segment,
// in order, until maxFrames frames have been produced.
func (s *implSelector) Select(ctx context.Context, segs []segment.Segment, m media.Media, maxFrames int, outDir string) []KeyFrame {
	if !m.HasVisual {
		return nil
	}
	maxFrames = ClampFrames(maxFrames)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		s.logger.Warn(ctx, "Failed to create frames dir %s: %v", outDir, err)
		return nil
	}

	var out []KeyFrame
	for i, seg := range segs {
		if len(out) >= maxFrames {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if !s.vocab.Matches(seg.Text) {
			continue
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("frame_%03d.jpg", i))
		if err := s.grabber.Grab(ctx, m.Path, seg.Start, outPath); err != nil {
			s.logger.Warn(ctx, "Frame grab at %s failed: %v", segment.FormatTimestamp(seg.Start), err)
			if s.onFail != nil {
				s.onFail()
			}
			continue
		}

		out = append(out, KeyFrame{
			Image:      outPath,
			SourceText: seg.Text,
			Timestamp:  seg.Start,
		})
	}

	s.logger.Debug(ctx, "Selected %d key frames", len(out))
	return out
}

// Grab writes a single JPEG frame taken at the given offset
func (g *ffmpegGrabber) Grab(ctx context.Context, videoPath string, at time.Duration, outPath string) error {
	// -ss before -i seeks on the input, which is fast and exact enough for stills
	// -q:v 2: high JPEG quality
	args := []string{
		"-ss", strconv.FormatFloat(at.Seconds(), 'f', 3, 64),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		outPath,
	}
	if _, err := g.executor.Execute(ctx, g.binary, args...); err != nil {
		return fmt.Errorf("ffmpeg grab frame: %w", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("ffmpeg grab frame: no output: %w", err)
	}
	return nil
}
