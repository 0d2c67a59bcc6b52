package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
	"github.com/nguyentantai21042004/repurpose/internal/session"
)

// Process runs Analyze, every trigger and the report for one file
func (p *implProcessor) Process(ctx context.Context, path string) (err error) {
	startTime := time.Now()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	defer func() { p.metrics.RecordFile(ctx, err) }()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting processing: %s", path)
	p.logger.Info(ctx, "========================================")

	m := p.newMachine()
	defer func() {
		// Drops the run workspace once the report has copied what it needs.
		_ = m.Dispatch(ctx, session.Reset{})
	}()

	// Step 1: Analyze
	if err := m.Dispatch(ctx, session.Analyze{
		Source:    pipeline.Source{Upload: path},
		MaxFrames: p.cfg.Frames.Default,
	}); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	// Step 2: Every trigger. Backend errors leave an empty slot; an empty
	// refined text makes every trigger a validation failure, so skip them.
	if m.Snapshot().Refined == "" {
		p.logger.Warn(ctx, "Refined text is empty for %s, skipping enrichment", name)
	} else {
		for _, k := range enrichment.Triggers {
			if err := m.Dispatch(ctx, session.Enrich{Kind: k}); err != nil {
				return fmt.Errorf("enrich %s: %w", k, err)
			}
		}
	}

	// Step 3: Report
	files, err := p.exporter.Export(ctx, m.Snapshot(), p.cfg.Paths.Output, name)
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	// Step 4: Move original to archived folder
	if err := p.moveToArchived(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Report: %s", files.Markdown)
	p.logger.Info(ctx, "Document: %s", files.Docx)
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return nil
}
