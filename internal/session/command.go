package session

import (
	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
)

// Command is a user action dispatched to a Machine.
type Command interface {
	isCommand()
}

// Analyze runs the pipeline on a source and commits the result.
type Analyze struct {
	Source    pipeline.Source
	MaxFrames int
	// OnState, when set, receives pipeline progress.
	OnState func(pipeline.State)
}

// Enrich regenerates one trigger slot from the refined text.
type Enrich struct {
	Kind enrichment.Kind
}

// Reset empties the session.
type Reset struct{}

func (Analyze) isCommand() {}
func (Enrich) isCommand()  {}
func (Reset) isCommand()   {}

func RequestInsights() Enrich    { return Enrich{Kind: enrichment.KindInsights} }
func RequestMistakes() Enrich    { return Enrich{Kind: enrichment.KindMistakes} }
func RequestApplication() Enrich { return Enrich{Kind: enrichment.KindApplication} }
func RequestTwitter() Enrich     { return Enrich{Kind: enrichment.KindTwitter} }
func RequestLinkedIn() Enrich    { return Enrich{Kind: enrichment.KindLinkedIn} }
func RequestReel() Enrich        { return Enrich{Kind: enrichment.KindReel} }
