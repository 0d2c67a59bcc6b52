package frames

import (
	"github.com/nguyentantai21042004/repurpose/internal/filter"
	"github.com/nguyentantai21042004/repurpose/internal/logger"
	"github.com/nguyentantai21042004/repurpose/pkg/executor"
)

const (
	DefaultFrames = 3
	MinFrames     = 1
	MaxFrames     = 5
)

type implSelector struct {
	grabber Grabber
	vocab   filter.Vocabulary
	logger  logger.Logger
	onFail  func()
}

// Option customises a Selector.
type Option func(*implSelector)

// WithFailureHook registers fn to be called once per failed grab.
func WithFailureHook(fn func()) Option {
	return func(s *implSelector) { s.onFail = fn }
}

// New creates a Selector over grabber.
func New(grabber Grabber, vocab filter.Vocabulary, log logger.Logger, opts ...Option) Selector {
	if len(vocab) == 0 {
		vocab = filter.DefaultVocabulary
	}
	s := &implSelector{
		grabber: grabber,
		vocab:   vocab,
		logger:  log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ffmpegGrabber struct {
	binary   string
	executor executor.Executor
}

// NewFFmpegGrabber creates a Grabber that shells out to ffmpeg.
func NewFFmpegGrabber(binary string, exec executor.Executor) Grabber {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &ffmpegGrabber{binary: binary, executor: exec}
}

// ClampFrames maps a requested frame count into [MinFrames, MaxFrames].
// Zero selects DefaultFrames.
func ClampFrames(n int) int {
	switch {
	case n == 0:
		return DefaultFrames
	case n < MinFrames:
		return MinFrames
	case n > MaxFrames:
		return MaxFrames
	default:
		return n
	}
}
