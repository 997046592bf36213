// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Metric is the metrics section of the service config.
type Metric struct {
	ExportInterval time.Duration `config:"export_interval"`
}

// NewMeterProvider returns a provider which periodically exports every
// recorded metric, including the Go runtime metrics, to the collector.
// Metrics are dropped if no collector is configured.
func NewMeterProvider(ctx context.Context, cfg Metric, otlp OTLP, r *resource.Resource, conns *Conns) (*sdkmetric.MeterProvider, error) {
	exp, err := newMetricExporter(ctx, otlp, conns)
	if err != nil {
		return nil, err
	}

	opts := []sdkmetric.PeriodicReaderOption{
		sdkmetric.WithProducer(runtime.NewProducer()),
	}
	if cfg.ExportInterval > 0 {
		opts = append(opts, sdkmetric.WithInterval(cfg.ExportInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, opts...)),
		sdkmetric.WithResource(r),
	)

	err = runtime.Start(
		runtime.WithMeterProvider(mp),
		runtime.WithMinimumReadMemStatsInterval(time.Second),
	)
	if err != nil {
		return nil, err
	}
	return mp, nil
}

func newMetricExporter(ctx context.Context, cfg OTLP, conns *Conns) (sdkmetric.Exporter, error) {
	switch cfg.Type {
	case "", OTLPNone:
		return noopMetricExporter{}, nil
	case OTLPGRPC:
		cc, err := conns.get(cfg.Target)
		if err != nil {
			return nil, err
		}
		return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(cc))
	case OTLPHTTP:
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(cfg.Target))
	default:
		return nil, UnknownOTLPConnTypeError{Type: cfg.Type}
	}
}

type noopMetricExporter struct{}

func (noopMetricExporter) Temporality(k sdkmetric.InstrumentKind) metricdata.Temporality {
	return sdkmetric.DefaultTemporalitySelector(k)
}

func (noopMetricExporter) Aggregation(k sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(k)
}

func (noopMetricExporter) Export(context.Context, *metricdata.ResourceMetrics) error {
	return nil
}

func (noopMetricExporter) ForceFlush(context.Context) error {
	return nil
}

func (noopMetricExporter) Shutdown(context.Context) error {
	return nil
}
