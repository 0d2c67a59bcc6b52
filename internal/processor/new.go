package processor

import (
	"github.com/nguyentantai21042004/repurpose/internal/config"
	"github.com/nguyentantai21042004/repurpose/internal/enrichment"
	"github.com/nguyentantai21042004/repurpose/internal/logger"
	"github.com/nguyentantai21042004/repurpose/internal/observe"
	"github.com/nguyentantai21042004/repurpose/internal/pipeline"
	"github.com/nguyentantai21042004/repurpose/internal/report"
	"github.com/nguyentantai21042004/repurpose/internal/session"
)

type implProcessor struct {
	cfg        *config.Config
	newMachine func() session.Machine
	exporter   report.Exporter
	metrics    *observe.Metrics
	logger     logger.Logger
}

// New creates a new Processor. Every file gets its own session so
// concurrent files never share state.
func New(cfg *config.Config, orch pipeline.Orchestrator, gw enrichment.Gateway, exporter report.Exporter, metrics *observe.Metrics, log logger.Logger) Processor {
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	return &implProcessor{
		cfg: cfg,
		newMachine: func() session.Machine {
			return session.NewMachine(orch, gw, metrics, log)
		},
		exporter: exporter,
		metrics:  metrics,
		logger:   log,
	}
}
