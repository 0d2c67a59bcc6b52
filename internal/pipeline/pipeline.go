package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/filter"
	"github.com/nguyentantai21042004/repurpose/internal/frames"
	"github.com/nguyentantai21042004/repurpose/internal/media"
	"github.com/nguyentantai21042004/repurpose/internal/observe"
	"github.com/nguyentantai21042004/repurpose/internal/segment"
	"github.com/nguyentantai21042004/repurpose/internal/transcriber"
)

// Run drives one source through acquisition, transcription, filtering,
// optional frame extraction and the refine call
func (o *implOrchestrator) Run(ctx context.Context, req Request) (run *Run, err error) {
	if req.Source.Empty() {
		return nil, Validation(MsgNoSource)
	}

	startTime := time.Now()
	id := o.newID()
	workdir := filepath.Join(o.opts.TempDir, "run-"+id)

	ctx, span := observe.StartSpan(ctx, "pipeline.run")
	defer func() {
		outcome := "ok"
		var f *Failure
		if errors.As(err, &f) {
			outcome = f.Class.String()
		}
		o.deps.Metrics.RecordRun(ctx, outcome)
		observe.EndSpan(span, err)
	}()

	o.deps.Logger.Info(ctx, "========================================")
	o.deps.Logger.Info(ctx, "Starting run %s: %s", id, req.Source)
	o.deps.Logger.Info(ctx, "========================================")

	if err := os.MkdirAll(workdir, 0755); err != nil {
		return nil, NewFailure(ClassAcquisition, StateIdle, MsgAcquisition, fmt.Errorf("create workdir: %w", err))
	}
	// Downloads and intermediate audio never outlive the run.
	defer o.cleanupDir(ctx, filepath.Join(workdir, "media"))
	defer func() {
		if err != nil {
			o.cleanupDir(ctx, workdir)
		}
	}()

	notify := func(s State) {
		if req.OnState != nil {
			req.OnState(s)
		}
	}

	// Step 1: Acquire source
	var m media.Media
	if err := o.stage(ctx, StateSourceAcquired, func(ctx context.Context) error {
		var err error
		m, err = o.deps.Acquirer.Acquire(ctx, req.Source.Link, req.Source.Upload, workdir)
		return err
	}); err != nil {
		return nil, NewFailure(ClassAcquisition, StateSourceAcquired, MsgAcquisition, err)
	}
	notify(StateSourceAcquired)

	// Step 2: Transcribe (or parse the uploaded subtitles)
	var spans []segment.Span
	if err := o.stage(ctx, StateTranscribed, func(ctx context.Context) error {
		var err error
		spans, err = o.transcribe(ctx, m, workdir)
		return err
	}); err != nil {
		return nil, NewFailure(ClassTranscription, StateTranscribed, MsgTranscription, err)
	}
	lang := transcriber.CheckLanguage(ctx, o.deps.Guard, o.deps.Logger, spans, o.opts.Language)
	notify(StateTranscribed)

	// Step 3: Filter
	var segs []segment.Segment
	var digest string
	o.step(ctx, StateFiltered, func(ctx context.Context) {
		segs = segment.Normalize(spans, o.opts.MinWords)
		digest = filter.Select(segs, o.opts.Vocabulary, o.opts.MaxChars)
	})
	o.deps.Metrics.RecordDigest(ctx, utf8.RuneCountInString(digest))
	o.deps.Logger.Info(ctx, "Filtered %d spans to %d segments, digest %d chars", len(spans), len(segs), utf8.RuneCountInString(digest))
	notify(StateFiltered)

	// Step 4: Key frames, visual sources only
	var keyFrames []frames.KeyFrame
	if m.HasVisual {
		o.step(ctx, StateFramesExtracted, func(ctx context.Context) {
			keyFrames = o.deps.Selector.Select(ctx, segs, m, frames.ClampFrames(req.MaxFrames), filepath.Join(workdir, "frames"))
		})
		notify(StateFramesExtracted)
	}

	// Step 5: Refine the digest
	var refined string
	if err := o.stage(ctx, StateEnriched, func(ctx context.Context) error {
		prompt, err := enrichment.Prompt(enrichment.KindRefine, digest)
		if err != nil {
			return err
		}
		refined, err = o.deps.Gateway.Generate(ctx, prompt)
		o.deps.Metrics.RecordEnrichment(ctx, string(enrichment.KindRefine), err)
		return err
	}); err != nil {
		return nil, NewFailure(ClassEnrichment, StateEnriched, MsgEnrichment, err)
	}
	notify(StateEnriched)

	run = &Run{
		ID:       id,
		Source:   req.Source,
		Media:    m,
		Language: lang,
		Segments: segs,
		Digest:   digest,
		Refined:  refined,
		Frames:   keyFrames,
		Workdir:  workdir,
	}

	o.deps.Logger.Info(ctx, "Run %s completed in %s (%d frames)", id, time.Since(startTime), len(keyFrames))
	return run, nil
}

// stage times and traces fn under the name of the state it produces
func (o *implOrchestrator) stage(ctx context.Context, s State, fn func(context.Context) error) error {
	ctx, span := observe.StartSpan(ctx, "pipeline."+s.String())
	start := time.Now()
	err := fn(ctx)
	o.deps.Metrics.RecordStage(ctx, s.String(), time.Since(start), err)
	observe.EndSpan(span, err)
	if err != nil {
		o.deps.Logger.Error(ctx, "Stage %s failed: %v", s, err)
	}
	return err
}

// step is stage for steps that cannot fail
func (o *implOrchestrator) step(ctx context.Context, s State, fn func(context.Context)) {
	ctx, span := observe.StartSpan(ctx, "pipeline."+s.String())
	start := time.Now()
	fn(ctx)
	o.deps.Metrics.RecordStage(ctx, s.String(), time.Since(start), nil)
	observe.EndSpan(span, nil)
}

func (o *implOrchestrator) transcribe(ctx context.Context, m media.Media, workdir string) ([]segment.Span, error) {
	if m.Kind == media.KindSubtitle {
		f, err := os.Open(m.Path)
		if err != nil {
			return nil, fmt.Errorf("open subtitles: %w", err)
		}
		defer f.Close()

		spans, err := segment.ParseSRT(f)
		if err != nil {
			return nil, fmt.Errorf("parse subtitles: %w", err)
		}
		return spans, nil
	}

	audioPath, err := o.deps.Acquirer.ExtractAudio(ctx, m, workdir)
	if err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}

	spans, err := o.deps.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	return spans, nil
}

// cleanupDir removes a directory tree, logs warning if fails
func (o *implOrchestrator) cleanupDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		o.deps.Logger.Warn(ctx, "Failed to cleanup %s: %v", dir, err)
	} else {
		o.deps.Logger.Debug(ctx, "Cleaned up: %s", dir)
	}
}
