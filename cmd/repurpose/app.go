package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/repurpose/internal/config"
	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/filter"
	"github.com/nguyentantai21042004/repurpose/internal/frames"
	"github.com/nguyentantai21042004/repurpose/internal/logger"
	"github.com/nguyentantai21042004/repurpose/internal/mcpserver"
	"github.com/nguyentantai21042004/repurpose/internal/media"
	"github.com/nguyentantai21042004/repurpose/internal/observe"
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
	"github.com/nguyentantai21042004/repurpose/internal/processor"
	"github.com/nguyentantai21042004/repurpose/internal/report"
	"github.com/nguyentantai21042004/repurpose/internal/segment"
	"github.com/nguyentantai21042004/repurpose/internal/session"
	"github.com/nguyentantai21042004/repurpose/internal/transcriber"
	"github.com/nguyentantai21042004/repurpose/internal/tui"
	"github.com/nguyentantai21042004/repurpose/internal/watcher"
	"github.com/nguyentantai21042004/repurpose/pkg/executor"
)

type app struct {
	cfg      *config.Config
	orch     pipeline.Orchestrator
	gateway  enrichment.Gateway
	exporter report.Exporter
	metrics  *observe.Metrics
	logger   logger.Logger
}

func newApp(cfg *config.Config, log logger.Logger) (*app, error) {
	exec := executor.New()
	metrics := observe.DefaultMetrics()

	tr, err := transcriber.New(cfg.Transcriber, exec, log)
	if err != nil {
		return nil, fmt.Errorf("create transcriber: %w", err)
	}
	gw, err := enrichment.New(cfg.Enrichment, log)
	if err != nil {
		return nil, fmt.Errorf("create enrichment gateway: %w", err)
	}

	vocab := filter.NewVocabulary(cfg.Filter.Vocabulary)
	selector := frames.New(
		frames.NewFFmpegGrabber(cfg.Media.FFmpegPath, exec),
		vocab,
		log,
		frames.WithFailureHook(func() { metrics.RecordFrameFailure(context.Background()) }),
	)

	orch := pipeline.New(pipeline.Deps{
		Acquirer:    media.New(cfg.Media, exec, log),
		Transcriber: tr,
		Guard:       transcriber.NewLanguageGuard(),
		Selector:    selector,
		Gateway:     gw,
		Metrics:     metrics,
		Logger:      log,
	}, pipeline.Options{
		Vocabulary: vocab,
		MaxChars:   cfg.Filter.MaxChars,
		MinWords:   cfg.Filter.MinWords,
		Language:   cfg.Transcriber.Language,
		TempDir:    cfg.Paths.Temp,
	})

	return &app{
		cfg:      cfg,
		orch:     orch,
		gateway:  gw,
		exporter: report.New(log),
		metrics:  metrics,
		logger:   log,
	}, nil
}

func (a *app) newMachine() session.Machine {
	return session.NewMachine(a.orch, a.gateway, a.metrics, a.logger)
}

// maxFrames caps a requested frame count at the configured maximum.
func (a *app) maxFrames(n int) int {
	if n <= 0 {
		n = a.cfg.Frames.Default
	}
	if n > a.cfg.Frames.Max {
		n = a.cfg.Frames.Max
	}
	return n
}

func (a *app) runAnalyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	link := fs.String("link", "", "remote video link")
	file := fs.String("file", "", "local video, audio or .srt file (wins over -link)")
	frameCount := fs.Int("frames", 0, "key frames to extract from uploaded video (1-5)")
	all := fs.Bool("all", false, "also run every trigger")
	only := fs.String("trigger", "", "comma-separated triggers to run: "+triggerNames())
	out := fs.String("out", "", "write a markdown and docx report into this folder")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kinds, err := selectTriggers(*all, *only)
	if err != nil {
		return err
	}

	m := a.newMachine()
	defer func() { _ = m.Dispatch(ctx, session.Reset{}) }()

	src := pipeline.Source{Link: *link, Upload: *file}
	err = m.Dispatch(ctx, session.Analyze{
		Source:    src,
		MaxFrames: a.maxFrames(*frameCount),
		OnState: func(s pipeline.State) {
			a.logger.Info(ctx, "Stage: %s", s)
		},
	})
	if err != nil {
		var f *pipeline.Failure
		if errors.As(err, &f) {
			fmt.Fprintln(os.Stderr, f.Message)
		}
		return err
	}

	for _, k := range kinds {
		if err := m.Dispatch(ctx, session.Enrich{Kind: k}); err != nil {
			var f *pipeline.Failure
			if errors.As(err, &f) {
				fmt.Fprintln(os.Stderr, f.Message)
			}
			return err
		}
	}

	snap := m.Snapshot()
	printSnapshot(snap)

	if *out == "" {
		return nil
	}
	files, err := a.exporter.Export(ctx, snap, *out, reportName(src, snap.RunID))
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	fmt.Printf("\nReport: %s\nDocument: %s\n", files.Markdown, files.Docx)
	return nil
}

func (a *app) runWatch(ctx context.Context) error {
	proc := processor.New(a.cfg, a.orch, a.gateway, a.exporter, a.metrics, a.logger)

	w, err := watcher.New(a.cfg.Paths.Input, proc.Process, a.logger, a.cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	a.logger.Info(ctx, "========================================")
	a.logger.Info(ctx, "Repurpose watcher is ready!")
	a.logger.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
	a.logger.Info(ctx, "Output: %s", a.cfg.Paths.Output)
	a.logger.Info(ctx, "Transcriber: %s, Enrichment: %s (%s)", a.cfg.Transcriber.Backend, a.cfg.Enrichment.Backend, a.cfg.Enrichment.Model)
	a.logger.Info(ctx, "Concurrent: %d files at once", a.cfg.Performance.MaxConcurrent)
	a.logger.Info(ctx, "Press Ctrl+C to stop")
	a.logger.Info(ctx, "========================================")

	select {
	case <-ctx.Done():
		a.logger.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("watcher: %w", err)
	}

	a.logger.Info(ctx, "Repurpose watcher stopped")
	return nil
}

func (a *app) runTUI(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	link := fs.String("link", "", "remote video link to start with")
	file := fs.String("file", "", "local video, audio or .srt file to start with")
	frameCount := fs.Int("frames", 0, "key frames to extract from uploaded video (1-5)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m := a.newMachine()
	defer func() { _ = m.Dispatch(context.Background(), session.Reset{}) }()

	return tui.Run(ctx, m, pipeline.Source{Link: *link, Upload: *file}, a.maxFrames(*frameCount))
}

func (a *app) runMCP(ctx context.Context) error {
	m := a.newMachine()
	defer func() { _ = m.Dispatch(context.Background(), session.Reset{}) }()

	a.logger.Info(ctx, "Serving MCP on stdio")
	return mcpserver.New(m, a.cfg.Frames.Default, version, a.logger).ServeStdio()
}

func triggerNames() string {
	names := make([]string, 0, len(enrichment.Triggers))
	for _, k := range enrichment.Triggers {
		names = append(names, string(k))
	}
	return strings.Join(names, ",")
}

func selectTriggers(all bool, only string) ([]enrichment.Kind, error) {
	if all {
		return enrichment.Triggers, nil
	}
	if only == "" {
		return nil, nil
	}
	var kinds []enrichment.Kind
	for _, name := range strings.Split(only, ",") {
		k, err := enrichment.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		if !k.IsTrigger() {
			return nil, fmt.Errorf("%q is not a trigger", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func reportName(src pipeline.Source, runID string) string {
	if src.Upload != "" {
		return strings.TrimSuffix(filepath.Base(src.Upload), filepath.Ext(src.Upload))
	}
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return "run-" + runID
}

func printSnapshot(snap session.Snapshot) {
	fmt.Printf("Source: %s\n", snap.Source)
	if snap.Language != "" {
		fmt.Printf("Language: %s\n", snap.Language)
	}
	fmt.Printf("Transcript segments: %d\n", len(snap.Segments))

	fmt.Printf("\n## %s\n\n", enrichment.KindRefine.Title())
	if snap.Refined == "" {
		fmt.Println("(empty: no high-signal content was found)")
	} else {
		fmt.Println(snap.Refined)
	}

	for _, k := range enrichment.Triggers {
		if text := snap.Slots[k]; text != "" {
			fmt.Printf("\n## %s\n\n%s\n", k.Title(), text)
		}
	}

	if len(snap.Frames) > 0 {
		fmt.Println("\n## Key Frames")
		fmt.Println()
		for _, kf := range snap.Frames {
			fmt.Printf("- [%s] %s\n  %s\n", segment.FormatTimestamp(kf.Timestamp), kf.Image, kf.SourceText)
		}
	}
}
