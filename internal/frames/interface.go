package frames

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/repurpose/internal/media"
	"github.com/nguyentantai21042004/repurpose/internal/segment"
)

// Grabber extracts one still image from a video at a timestamp.
type Grabber interface {
	Grab(ctx context.Context, videoPath string, at time.Duration, outPath string) error
}

// Selector picks key frames aligned to high-signal segments.
type Selector interface {
	// Select writes JPEGs into outDir. It never fails: grabs that error are
	// logged and skipped, and non-visual media yields no frames.
	Select(ctx context.Context, segs []segment.Segment, m media.Media, maxFrames int, outDir string) []KeyFrame
}

// KeyFrame is a still image paired with the segment it illustrates.
type KeyFrame struct {
	Image      string
	SourceText string
	Timestamp  time.Duration
}
