// Package observe provides the OpenTelemetry metrics and tracing used by the
// pipeline and its surfaces.
//
// Tests should use [NewMetrics] with their own [metric.MeterProvider];
// production wiring calls [InitProvider] once and then [DefaultMetrics].
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/nguyentantai21042004/repurpose"

// Metrics holds every instrument the application records.
type Metrics struct {
	// StageDuration tracks per-stage latency of an Analyze run. Attributes:
	//   attribute.String("stage", ...), attribute.String("status", ...)
	StageDuration metric.Float64Histogram

	// Runs counts finished Analyze runs by outcome class.
	Runs metric.Int64Counter

	// EnrichmentRequests counts gateway calls by kind and status.
	EnrichmentRequests metric.Int64Counter

	// FrameGrabFailures counts frame grabs that failed and were skipped.
	FrameGrabFailures metric.Int64Counter

	// DigestChars records the size of each produced digest.
	DigestChars metric.Int64Histogram

	// FilesProcessed counts watch-mode files by status.
	FilesProcessed metric.Int64Counter
}

// Stage latencies run from sub-second probes to multi-minute transcriptions.
var latencyBuckets = []float64{
	0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600,
}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.StageDuration, err = m.Float64Histogram("repurpose.stage.duration",
		metric.WithDescription("Latency of a pipeline stage."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Runs, err = m.Int64Counter("repurpose.runs",
		metric.WithDescription("Analyze runs by outcome."),
	); err != nil {
		return nil, err
	}
	if met.EnrichmentRequests, err = m.Int64Counter("repurpose.enrichment.requests",
		metric.WithDescription("Enrichment gateway calls by kind and status."),
	); err != nil {
		return nil, err
	}
	if met.FrameGrabFailures, err = m.Int64Counter("repurpose.frames.grab_failures",
		metric.WithDescription("Frame grabs that failed and were skipped."),
	); err != nil {
		return nil, err
	}
	if met.DigestChars, err = m.Int64Histogram("repurpose.digest.chars",
		metric.WithDescription("Length of the filtered digest in characters."),
	); err != nil {
		return nil, err
	}
	if met.FilesProcessed, err = m.Int64Counter("repurpose.watch.files",
		metric.WithDescription("Files handled in watch mode by status."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level Metrics built on the global
// MeterProvider. It panics if instrument creation fails.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordStage records how long stage took and whether it failed.
func (m *Metrics) RecordStage(ctx context.Context, stage string, d time.Duration, err error) {
	m.StageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status(err)),
	))
}

// RecordRun counts one finished run. outcome is "ok" or a failure class.
func (m *Metrics) RecordRun(ctx context.Context, outcome string) {
	m.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordEnrichment counts one gateway call.
func (m *Metrics) RecordEnrichment(ctx context.Context, kind string, err error) {
	m.EnrichmentRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status(err)),
	))
}

// RecordFrameFailure counts one skipped frame grab.
func (m *Metrics) RecordFrameFailure(ctx context.Context) {
	m.FrameGrabFailures.Add(ctx, 1)
}

// RecordDigest records the digest length in characters.
func (m *Metrics) RecordDigest(ctx context.Context, chars int) {
	m.DigestChars.Record(ctx, int64(chars))
}

// RecordFile counts one watch-mode file.
func (m *Metrics) RecordFile(ctx context.Context, err error) {
	m.FilesProcessed.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status(err))))
}
