package pipeline

import (
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/filter"
	"github.com/nguyentantai21042004/repurpose/internal/frames"
	"github.com/nguyentantai21042004/repurpose/internal/logger"
	"github.com/nguyentantai21042004/repurpose/internal/media"
	"github.com/nguyentantai21042004/repurpose/internal/observe"
	"github.com/nguyentantai21042004/repurpose/internal/transcriber"
)

// Deps are the collaborators of the orchestrator. Guard and Metrics are optional.
type Deps struct {
	Acquirer    media.Acquirer
	Transcriber transcriber.Transcriber
	Guard       transcriber.LanguageGuard
	Selector    frames.Selector
	Gateway     enrichment.Gateway
	Metrics     *observe.Metrics
	Logger      logger.Logger
}

// Options tune the filter and the run workspace.
type Options struct {
	Vocabulary filter.Vocabulary
	MaxChars   int
	MinWords   int
	// Language is the expected transcript language (ISO 639-1).
	Language string
	// TempDir is the parent of every run workspace.
	TempDir string
}

type implOrchestrator struct {
	deps  Deps
	opts  Options
	newID func() string
}

// New creates an Orchestrator
func New(deps Deps, opts Options) Orchestrator {
	if deps.Metrics == nil {
		deps.Metrics = observe.DefaultMetrics()
	}
	if len(opts.Vocabulary) == 0 {
		opts.Vocabulary = filter.DefaultVocabulary
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = filter.DefaultMaxChars
	}
	if opts.TempDir == "" {
		opts.TempDir = "data/temp"
	}
	return &implOrchestrator{
		deps:  deps,
		opts:  opts,
		newID: uuid.NewString,
	}
}
