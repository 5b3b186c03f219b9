package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/gbarbieri/equisuite/internal/domain"
)

const (
	serviceName    = "equisuite"
	serviceVersion = "1.0.0"
)

// OTLPExporter exports run metrics to an OTEL Collector.
type OTLPExporter struct {
	provider     *sdkmetric.MeterProvider
	meter        metric.Meter
	runsTotal    metric.Int64Counter
	durationHist metric.Float64Histogram
	basisDimHist metric.Float64Histogram
}

// NewOTLPExporter creates a metrics exporter pointed at cfg.Endpoint.
func NewOTLPExporter(ctx context.Context, cfg Config) (*OTLPExporter, error) {
	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	runsTotal, err := meter.Int64Counter(
		"equisuite_runs_total",
		metric.WithDescription("Total number of experiment runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"equisuite_run_duration_seconds",
		metric.WithDescription("Experiment run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	basisDimHist, err := meter.Float64Histogram(
		"equisuite_basis_dim",
		metric.WithDescription("Equivariant basis dimensions measured by runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating basis dimension histogram: %w", err)
	}

	return &OTLPExporter{
		provider:     provider,
		meter:        meter,
		runsTotal:    runsTotal,
		durationHist: durationHist,
		basisDimHist: basisDimHist,
	}, nil
}

// ExportRunMetrics records metrics for a finished run.
func (e *OTLPExporter) ExportRunMetrics(ctx context.Context, run *domain.Run, basisDims []float64) error {
	attrs := []attribute.KeyValue{
		attribute.String("experiment", run.Experiment),
		attribute.String("group", run.Group),
		attribute.String("status", string(run.Status)),
	}
	set := metric.WithAttributes(attrs...)

	e.runsTotal.Add(ctx, 1, set)
	if d := run.Duration(); d > 0 {
		e.durationHist.Record(ctx, d.Seconds(), set)
	}
	for _, dim := range basisDims {
		e.basisDimHist.Record(ctx, dim, set)
	}
	return nil
}

// Close flushes pending metrics and shuts down the provider.
func (e *OTLPExporter) Close(ctx context.Context) error {
	if err := e.provider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("flushing metrics: %w", err)
	}
	return e.provider.Shutdown(ctx)
}
