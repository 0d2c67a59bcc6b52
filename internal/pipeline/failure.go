package pipeline

import "fmt"

// Class is the coarse failure taxonomy surfaced to callers.
type Class int

const (
	ClassAcquisition Class = iota + 1
	ClassTranscription
	ClassFrameExtraction
	ClassEnrichment
	ClassValidation
)

func (c Class) String() string {
	switch c {
	case ClassAcquisition:
		return "acquisition"
	case ClassTranscription:
		return "transcription"
	case ClassFrameExtraction:
		return "frame_extraction"
	case ClassEnrichment:
		return "enrichment"
	case ClassValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// User-facing remediation messages, one per class.
const (
	MsgNoSource      = "Please provide a link or upload a file."
	MsgAcquisition   = "This source can't be processed automatically. Please upload the video or audio file directly."
	MsgTranscription = "This file can't be transcribed. Please upload a different video or audio file."
	MsgEnrichment    = "Text generation failed. Please try again."
	MsgNotAnalyzed   = "Analyze a source first."
)

// Failure is the single error type returned by the orchestrator and the
// session state machine. Message is safe to show to the user; Err carries
// the underlying cause.
type Failure struct {
	Class   Class
	Stage   State
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s failure at %s: %v", f.Class, f.Stage, f.Err)
	}
	return fmt.Sprintf("%s failure at %s: %s", f.Class, f.Stage, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure builds a Failure.
func NewFailure(class Class, stage State, msg string, err error) *Failure {
	return &Failure{Class: class, Stage: stage, Message: msg, Err: err}
}

// Validation builds a ValidationFailure with no underlying cause.
func Validation(msg string) *Failure {
	return &Failure{Class: ClassValidation, Stage: StateIdle, Message: msg}
}
