package session

import (
	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/logger"
	"github.com/nguyentantai21042004/repurpose/internal/observe"
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
)

type implMachine struct {
	session      *Session
	orchestrator pipeline.Orchestrator
	gateway      enrichment.Gateway
	metrics      *observe.Metrics
	logger       logger.Logger
}

// NewMachine creates a Machine over a fresh Session. metrics may be nil.
func NewMachine(orch pipeline.Orchestrator, gw enrichment.Gateway, metrics *observe.Metrics, log logger.Logger) Machine {
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	return &implMachine{
		session:      New(),
		orchestrator: orch,
		gateway:      gw,
		metrics:      metrics,
		logger:       log,
	}
}
