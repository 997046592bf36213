// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Batch configures how often, and in which sizes, telemetry is exported.
type Batch struct {
	ExportInterval time.Duration `config:"export_interval"`
	MaxSize        int           `config:"max_size"`
}

// Trace is the tracing section of the service config.
type Trace struct {
	// Sampling is the ratio of traces which are recorded.
	Sampling float64 `config:"sampling"`
	Batch    Batch   `config:"batch"`
}

// NewTracerProvider returns a provider which batches spans and exports
// them to the collector. Spans are dropped if no collector is configured.
func NewTracerProvider(ctx context.Context, cfg Trace, otlp OTLP, r *resource.Resource, conns *Conns) (*sdktrace.TracerProvider, error) {
	exp, err := newSpanExporter(ctx, otlp, conns)
	if err != nil {
		return nil, err
	}

	var opts []sdktrace.BatchSpanProcessorOption
	if cfg.Batch.ExportInterval > 0 {
		opts = append(opts, sdktrace.WithBatchTimeout(cfg.Batch.ExportInterval))
	}
	if cfg.Batch.MaxSize > 0 {
		opts = append(opts, sdktrace.WithMaxExportBatchSize(cfg.Batch.MaxSize))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exp, opts...)),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.Sampling)),
		sdktrace.WithResource(r),
	)
	return tp, nil
}

func newSpanExporter(ctx context.Context, cfg OTLP, conns *Conns) (sdktrace.SpanExporter, error) {
	switch cfg.Type {
	case "", OTLPNone:
		return noopSpanExporter{}, nil
	case OTLPGRPC:
		cc, err := conns.get(cfg.Target)
		if err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(cc))
	case OTLPHTTP:
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.Target))
	default:
		return nil, UnknownOTLPConnTypeError{Type: cfg.Type}
	}
}

type noopSpanExporter struct{}

func (noopSpanExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error {
	return nil
}

func (noopSpanExporter) Shutdown(context.Context) error {
	return nil
}
