// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// NewLogExporter returns the exporter which sends log records to the
// collector, or nil if no collector is configured.
func NewLogExporter(ctx context.Context, cfg OTLP, conns *Conns) (sdklog.Exporter, error) {
	switch cfg.Type {
	case "", OTLPNone:
		return nil, nil
	case OTLPGRPC:
		cc, err := conns.get(cfg.Target)
		if err != nil {
			return nil, err
		}
		return otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(cc))
	case OTLPHTTP:
		return otlploghttp.New(ctx, otlploghttp.WithEndpoint(cfg.Target))
	default:
		return nil, UnknownOTLPConnTypeError{Type: cfg.Type}
	}
}
