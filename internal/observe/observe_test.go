package observe

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestRecordStage(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordStage(ctx, "transcribe", 2*time.Second, nil)
	m.RecordStage(ctx, "transcribe", time.Second, errors.New("boom"))

	got := findMetric(collect(t, reader), "repurpose.stage.duration")
	if got == nil {
		t.Fatal("stage duration metric not found")
	}
	hist, ok := got.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("unexpected data type %T", got.Data)
	}
	if len(hist.DataPoints) != 2 {
		t.Fatalf("got %d data points, want 2 (ok and error)", len(hist.DataPoints))
	}
	for _, dp := range hist.DataPoints {
		if v, _ := dp.Attributes.Value(attribute.Key("stage")); v.AsString() != "transcribe" {
			t.Errorf("stage attribute = %q", v.AsString())
		}
		if dp.Count != 1 {
			t.Errorf("count = %d, want 1", dp.Count)
		}
	}
}

func TestCounters(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordRun(ctx, "ok")
	m.RecordRun(ctx, "ok")
	m.RecordEnrichment(ctx, "insights", nil)
	m.RecordFrameFailure(ctx)
	m.RecordFile(ctx, errors.New("x"))
	m.RecordDigest(ctx, 120)

	rm := collect(t, reader)
	tests := []struct {
		name string
		want int64
	}{
		{"repurpose.runs", 2},
		{"repurpose.enrichment.requests", 1},
		{"repurpose.frames.grab_failures", 1},
		{"repurpose.watch.files", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findMetric(rm, tt.name)
			if got == nil {
				t.Fatalf("%s not found", tt.name)
			}
			sum, ok := got.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("unexpected data type %T", got.Data)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			if total != tt.want {
				t.Errorf("total = %d, want %d", total, tt.want)
			}
		})
	}

	if findMetric(rm, "repurpose.digest.chars") == nil {
		t.Error("digest histogram not found")
	}
}

func TestEndSpanRecordsError(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	origTP := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(origTP) })

	ctx, span := StartSpan(context.Background(), "pipeline.transcribe")
	if len(TraceID(ctx)) != 32 {
		t.Errorf("TraceID() = %q", TraceID(ctx))
	}
	EndSpan(span, errors.New("whisper failed"))

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "pipeline.transcribe" || spans[0].Status.Code != codes.Error {
		t.Errorf("span = %s status %v", spans[0].Name, spans[0].Status)
	}

	if TraceID(context.Background()) != "" {
		t.Error("TraceID(background) should be empty")
	}
}

func TestMetricsServer(t *testing.T) {
	srv := NewMetricsServer(":0")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Errorf("GET /metrics = %d, want 200", rec.Code)
	}
}

func TestInitProvider(t *testing.T) {
	origTP := otel.GetTracerProvider()
	origMP := otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(origTP)
		otel.SetMeterProvider(origMP)
	})

	exp := tracetest.NewInMemoryExporter()
	shutdown, err := InitProvider(context.Background(), ProviderConfig{ServiceVersion: "0.3.0", TraceExporter: exp})
	if err != nil {
		t.Fatalf("InitProvider() error = %v", err)
	}

	_, span := StartSpan(context.Background(), "pipeline.run")
	EndSpan(span, nil)

	tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	if !ok {
		t.Fatalf("global tracer provider is %T", otel.GetTracerProvider())
	}
	if err := tp.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error = %v", err)
	}

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	res := spans[0].Resource
	if v, ok := res.Set().Value(attribute.Key("service.name")); !ok || v.AsString() != "repurpose" {
		t.Errorf("service.name = %v", v)
	}
	if v, ok := res.Set().Value(attribute.Key("service.version")); !ok || v.AsString() != "0.3.0" {
		t.Errorf("service.version = %v", v)
	}

	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}
