package session

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/observe"
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
)

const msgEmptyRefined = "There is nothing to build on: the refined text is empty. Try another source."

// Dispatch applies one command
func (m *implMachine) Dispatch(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case Analyze:
		return m.analyze(ctx, c)
	case Enrich:
		return m.enrich(ctx, c)
	case Reset:
		m.discard(ctx, m.session.reset())
		m.logger.Info(ctx, "Session reset")
		return nil
	case nil:
		return pipeline.Validation("no command given")
	default:
		return pipeline.Validation(fmt.Sprintf("unsupported command %T", cmd))
	}
}

func (m *implMachine) Snapshot() Snapshot {
	return m.session.Snapshot()
}

func (m *implMachine) analyze(ctx context.Context, c Analyze) error {
	run, err := m.orchestrator.Run(ctx, pipeline.Request{
		Source:    c.Source,
		MaxFrames: c.MaxFrames,
		OnState:   c.OnState,
	})
	if err != nil {
		return err
	}
	m.discard(ctx, m.session.commit(run))
	return nil
}

func (m *implMachine) enrich(ctx context.Context, c Enrich) error {
	if !c.Kind.IsTrigger() {
		return pipeline.Validation(fmt.Sprintf("%q is not an enrichment trigger", c.Kind))
	}
	if !m.session.Analyzed() {
		return pipeline.Validation(pipeline.MsgNotAnalyzed)
	}
	refined := m.session.Refined()
	if refined == "" {
		return pipeline.Validation(msgEmptyRefined)
	}

	prompt, err := enrichment.Prompt(c.Kind, refined)
	if err != nil {
		return pipeline.Validation(err.Error())
	}

	ctx, span := observe.StartSpan(ctx, "session.enrich."+string(c.Kind))
	text, err := m.gateway.Generate(ctx, prompt)
	m.metrics.RecordEnrichment(ctx, string(c.Kind), err)
	observe.EndSpan(span, err)
	if err != nil {
		// Non-fatal: the slot degrades to empty and nothing else changes.
		m.logger.Warn(ctx, "Enrichment %s failed: %v", c.Kind, err)
		text = ""
	}

	m.session.setSlot(c.Kind, text)
	return nil
}

func (m *implMachine) discard(ctx context.Context, run *pipeline.Run) {
	if err := run.Discard(); err != nil {
		m.logger.Warn(ctx, "Failed to remove workspace of run %s: %v", run.ID, err)
	}
}
