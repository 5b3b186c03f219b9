// Package telemetry exports run metrics to an OTEL Collector over OTLP
// gRPC. When disabled, callers get a no-op exporter so the rest of the
// code never branches on configuration.
package telemetry

import (
	"context"

	"github.com/gbarbieri/equisuite/internal/domain"
)

// Exporter exports metrics for completed experiment runs. basisDims holds
// the basis-dimension measurements the run recorded, one histogram sample
// each.
type Exporter interface {
	ExportRunMetrics(ctx context.Context, run *domain.Run, basisDims []float64) error
	Close(ctx context.Context) error
}

// Config holds exporter configuration.
type Config struct {
	Endpoint string
	Enabled  bool
	Insecure bool
}

// New returns an OTLP exporter when cfg enables one, otherwise a no-op.
func New(ctx context.Context, cfg Config) (Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return NewNoOpExporter(), nil
	}
	return NewOTLPExporter(ctx, cfg)
}

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExportRunMetrics(ctx context.Context, run *domain.Run, basisDims []float64) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
