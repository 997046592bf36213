// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// slogExporter writes OTel log records through a [slog.Handler].
type slogExporter struct {
	handler slog.Handler
}

const severityOffset = log.SeverityDebug - log.Severity(slog.LevelDebug)

// Export implements the [sdklog.Exporter] interface.
func (e *slogExporter) Export(ctx context.Context, records []sdklog.Record) error {
	for _, record := range records {
		sr := slog.NewRecord(
			record.Timestamp(),
			slog.Level(record.Severity()-severityOffset),
			record.Body().AsString(),
			0,
		)
		sr.AddAttrs(slog.String("logger", record.InstrumentationScope().Name))

		record.WalkAttributes(func(kv log.KeyValue) bool {
			sr.AddAttrs(slog.Attr{
				Key:   kv.Key,
				Value: slogValue(kv.Value),
			})
			return true
		})

		if record.TraceID().IsValid() {
			sr.AddAttrs(
				slog.String("trace_id", record.TraceID().String()),
				slog.String("span_id", record.SpanID().String()),
			)
		}

		err := e.handler.Handle(ctx, sr)
		if err != nil {
			return err
		}
	}
	return nil
}

func slogValue(v log.Value) slog.Value {
	switch v.Kind() {
	case log.KindBool:
		return slog.BoolValue(v.AsBool())
	case log.KindBytes:
		return slog.AnyValue(v.AsBytes())
	case log.KindFloat64:
		return slog.Float64Value(v.AsFloat64())
	case log.KindInt64:
		return slog.Int64Value(v.AsInt64())
	case log.KindString:
		return slog.StringValue(v.AsString())
	case log.KindMap:
		kvs := v.AsMap()
		attrs := make([]slog.Attr, len(kvs))
		for i, kv := range kvs {
			attrs[i] = slog.Attr{Key: kv.Key, Value: slogValue(kv.Value)}
		}
		return slog.GroupValue(attrs...)
	case log.KindSlice:
		vs := v.AsSlice()
		vals := make([]any, len(vs))
		for i, item := range vs {
			vals[i] = slogValue(item).Any()
		}
		return slog.AnyValue(vals)
	default:
		return slog.StringValue(v.String())
	}
}

// ForceFlush implements the [sdklog.Exporter] interface.
func (e *slogExporter) ForceFlush(ctx context.Context) error {
	return nil
}

// Shutdown implements the [sdklog.Exporter] interface.
func (e *slogExporter) Shutdown(ctx context.Context) error {
	return nil
}
