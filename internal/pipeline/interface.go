package pipeline

import "context"

// Orchestrator runs the Analyze pipeline for one source.
type Orchestrator interface {
	// Run returns the committed Run, or a *Failure. A failed run leaves no
	// files behind.
	Run(ctx context.Context, req Request) (*Run, error)
}
