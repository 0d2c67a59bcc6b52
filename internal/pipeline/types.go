package pipeline

import (
	"os"
	"strings"

	"github.com/nguyentantai21042004/repurpose/internal/frames"
	"github.com/nguyentantai21042004/repurpose/internal/media"
	"github.com/nguyentantai21042004/repurpose/internal/segment"
)

// State is a step of one Analyze run.
type State int

const (
	StateIdle State = iota
	StateSourceAcquired
	StateTranscribed
	StateFiltered
	StateFramesExtracted
	StateEnriched
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSourceAcquired:
		return "source_acquired"
	case StateTranscribed:
		return "transcribed"
	case StateFiltered:
		return "filtered"
	case StateFramesExtracted:
		return "frames_extracted"
	case StateEnriched:
		return "enriched"
	default:
		return "unknown"
	}
}

// Source is what the user submitted. Upload wins when both are set.
type Source struct {
	Link   string
	Upload string
}

// Empty reports whether neither a link nor an upload was given.
func (s Source) Empty() bool {
	return strings.TrimSpace(s.Link) == "" && strings.TrimSpace(s.Upload) == ""
}

func (s Source) String() string {
	if u := strings.TrimSpace(s.Upload); u != "" {
		return u
	}
	return strings.TrimSpace(s.Link)
}

// Request is one Analyze submission.
type Request struct {
	Source    Source
	MaxFrames int
	// OnState, when set, is called as the run enters each state.
	OnState func(State)
}

// Run is the committed output of a successful Analyze.
type Run struct {
	ID       string
	Source   Source
	Media    media.Media
	Language string
	Segments []segment.Segment
	Digest   string
	Refined  string
	Frames   []frames.KeyFrame
	// Workdir owns the frame images. It is removed by Discard.
	Workdir string
}

// Discard removes the run's workspace. It is safe on a nil Run.
func (r *Run) Discard() error {
	if r == nil || r.Workdir == "" {
		return nil
	}
	return os.RemoveAll(r.Workdir)
}
