package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	defaultServiceName    = "live-scoring-service"
	defaultExportInterval = 15 * time.Second
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled        bool
	Port           string
	ServiceName    string
	OtlpEndpoint   string
	OtlpInsecure   bool
	ExportInterval time.Duration
}

// Setup builds a meter provider that always exposes a Prometheus scrape handler
// and pushes over OTLP when an endpoint is configured. Disabled telemetry yields
// a no-op Recorder and a nil handler.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}
	if cfg.ExportInterval <= 0 {
		cfg.ExportInterval = defaultExportInterval
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("prometheus exporter: %w", err)
	}
	readers := []sdkmetric.Reader{promReader}
	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("otlp exporter: %w", err)
		}
		readers = append(readers, otlpReader)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("metrics resource: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	provider := sdkmetric.NewMeterProvider(opts...)

	inst, err := instrumentFactory(provider)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, nil, nil, err
	}
	return newRecorder(inst), promHandler, provider.Shutdown, nil
}

func buildOTLPReader(ctx context.Context, cfg TelemetryConfig) (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.OtlpEndpoint)}
	if cfg.OtlpInsecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(cfg.ExportInterval)), nil
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	exp, err := promexporter.New(promexporter.WithRegisterer(reg), promexporter.WithoutUnits())
	if err != nil {
		return nil, nil, err
	}
	return exp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

type otelInstruments struct {
	ctx              context.Context
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	scoringEvents    metric.Int64Counter
	scoringFailures  metric.Int64Counter
	scoringLatencyMs metric.Float64Histogram
	conflicts        metric.Int64Counter
	broadcastSent    metric.Int64Counter
	broadcastDropped metric.Int64Counter
	broadcastClients metric.Int64UpDownCounter
	snapshotCycles   metric.Int64Counter
	snapshotFailures metric.Int64Counter
	snapshotLatency  metric.Float64Histogram
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter(defaultServiceName)
	o := &otelInstruments{ctx: context.Background()}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&o.requests, "http_requests_total", "HTTP requests served"},
		{&o.scoringEvents, "scoring_events_total", "Scoring events applied or rejected"},
		{&o.scoringFailures, "scoring_failures_total", "Scoring events rejected, by error kind"},
		{&o.conflicts, "scoring_version_conflicts_total", "Optimistic save conflicts"},
		{&o.broadcastSent, "broadcast_messages_total", "Websocket messages queued to subscribers"},
		{&o.broadcastDropped, "broadcast_dropped_total", "Websocket messages dropped for slow subscribers"},
		{&o.snapshotCycles, "snapshot_cycles_total", "Scoreboard refresh cycles"},
		{&o.snapshotFailures, "snapshot_failures_total", "Scoreboard refresh cycles with an error"},
	}
	for _, c := range counters {
		inst, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("counter %s: %w", c.name, err)
		}
		*c.dst = inst
	}

	histograms := []struct {
		dst  *metric.Float64Histogram
		name string
		desc string
	}{
		{&o.requestLatencyMs, "http_request_duration_ms", "HTTP request latency"},
		{&o.scoringLatencyMs, "scoring_event_duration_ms", "Time to apply one scoring event"},
		{&o.snapshotLatency, "snapshot_cycle_duration_ms", "Scoreboard refresh cycle latency"},
	}
	for _, h := range histograms {
		inst, err := meter.Float64Histogram(h.name, metric.WithDescription(h.desc), metric.WithUnit("ms"))
		if err != nil {
			return nil, fmt.Errorf("histogram %s: %w", h.name, err)
		}
		*h.dst = inst
	}

	clients, err := meter.Int64UpDownCounter("broadcast_clients", metric.WithDescription("Connected websocket subscribers"))
	if err != nil {
		return nil, fmt.Errorf("updown counter broadcast_clients: %w", err)
	}
	o.broadcastClients = clients
	return o, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordScoringEvent(sport, action, kind string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrSport, sport),
		attribute.String(AttrAction, action),
	}
	o.recordCounter(o.scoringEvents, 1, attrs...)
	o.recordHistogram(o.scoringLatencyMs, float64(duration.Microseconds())/1000, attrs...)
	if kind != "" {
		o.recordCounter(o.scoringFailures, 1, append(attrs, attribute.String(AttrKind, kind))...)
	}
}

func (o *otelInstruments) recordConflict(sport string) {
	if o == nil {
		return
	}
	o.recordCounter(o.conflicts, 1, attribute.String(AttrSport, sport))
}

func (o *otelInstruments) recordBroadcast(event string, delivered, dropped int) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrEvent, event)}
	o.recordCounter(o.broadcastSent, int64(delivered), attrs...)
	if dropped > 0 {
		o.recordCounter(o.broadcastDropped, int64(dropped), attrs...)
	}
}

func (o *otelInstruments) recordClients(delta int) {
	if o == nil {
		return
	}
	o.broadcastClients.Add(o.ctx, int64(delta))
}

func (o *otelInstruments) recordSnapshotCycle(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.snapshotCycles, 1)
	o.recordHistogram(o.snapshotLatency, float64(duration.Milliseconds()))
	if err != nil {
		o.recordCounter(o.snapshotFailures, 1)
	}
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}
