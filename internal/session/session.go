// Package session holds the single mutable record of one interaction and the
// state machine that mutates it in response to commands.
package session

import (
	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/frames"
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
	"github.com/nguyentantai21042004/repurpose/internal/segment"
)

// Session is the record one user interaction works on. It is not safe for
// concurrent use; surfaces serialize access through a Machine.
type Session struct {
	run   *pipeline.Run
	slots map[enrichment.Kind]string
}

// New returns an empty Session.
func New() *Session {
	return &Session{slots: make(map[enrichment.Kind]string)}
}

// Analyzed reports whether an Analyze run has committed.
func (s *Session) Analyzed() bool { return s.run != nil }

func (s *Session) Segments() []segment.Segment {
	if s.run == nil {
		return nil
	}
	return s.run.Segments
}

func (s *Session) Digest() string {
	if s.run == nil {
		return ""
	}
	return s.run.Digest
}

func (s *Session) Refined() string {
	if s.run == nil {
		return ""
	}
	return s.run.Refined
}

func (s *Session) Frames() []frames.KeyFrame {
	if s.run == nil {
		return nil
	}
	return s.run.Frames
}

// Slot returns the stored output for a trigger kind, or "".
func (s *Session) Slot(k enrichment.Kind) string {
	return s.slots[k]
}

// commit replaces the analyzed content with run and clears every slot,
// since they were derived from the previous refined text. The previous
// run is returned so the caller can discard its workspace.
func (s *Session) commit(run *pipeline.Run) *pipeline.Run {
	prev := s.run
	s.run = run
	s.slots = make(map[enrichment.Kind]string)
	return prev
}

func (s *Session) setSlot(k enrichment.Kind, text string) {
	s.slots[k] = text
}

// reset empties every field and returns the run that was dropped.
func (s *Session) reset() *pipeline.Run {
	return s.commit(nil)
}

// Snapshot is a deep copy of a Session, safe to read from other goroutines.
type Snapshot struct {
	Analyzed  bool
	RunID     string
	Source    string
	Language  string
	HasVisual bool
	Segments  []segment.Segment
	Digest    string
	Refined   string
	Frames    []frames.KeyFrame
	Slots     map[enrichment.Kind]string
}

// Snapshot copies the session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{Slots: make(map[enrichment.Kind]string, len(s.slots))}
	for k, v := range s.slots {
		snap.Slots[k] = v
	}
	if s.run == nil {
		return snap
	}

	snap.Analyzed = true
	snap.RunID = s.run.ID
	snap.Source = s.run.Source.String()
	snap.Language = s.run.Language
	snap.HasVisual = s.run.Media.HasVisual
	snap.Segments = append([]segment.Segment(nil), s.run.Segments...)
	snap.Digest = s.run.Digest
	snap.Refined = s.run.Refined
	snap.Frames = append([]frames.KeyFrame(nil), s.run.Frames...)
	return snap
}
