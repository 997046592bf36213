// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package logging configures the OTel logger provider which backs
// every logger created with kinrest.Logger.
package logging

import (
	"io"
	"log/slog"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Config is the logging section of the service config.
type Config struct {
	// Level is the minimum level of every logger without
	// a more specific entry in Levels.
	Level string `config:"level"`

	// Levels maps logger name prefixes to their minimum level.
	Levels map[string]string `config:"levels"`
}

// Option customizes the provider returned by [NewLoggerProvider].
type Option func(*options)

type options struct {
	res       *resource.Resource
	exporters []sdklog.Exporter
}

// WithResource sets the resource attached to every record.
func WithResource(r *resource.Resource) Option {
	return func(o *options) {
		o.res = r
	}
}

// WithExporter exports records in batches through exp, in addition
// to writing them as JSON lines.
func WithExporter(exp sdklog.Exporter) Option {
	return func(o *options) {
		o.exporters = append(o.exporters, exp)
	}
}

// NewLoggerProvider returns a provider which writes every record, at or
// above its configured level, as a JSON line to w.
func NewLoggerProvider(cfg Config, w io.Writer, opts ...Option) *sdklog.LoggerProvider {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	exp := &slogExporter{
		handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}),
	}

	lpOpts := []sdklog.LoggerProviderOption{
		sdklog.WithProcessor(newLevelProcessor(
			sdklog.NewSimpleProcessor(exp),
			cfg.Level,
			cfg.Levels,
		)),
	}
	for _, extra := range o.exporters {
		lpOpts = append(lpOpts, sdklog.WithProcessor(newLevelProcessor(
			sdklog.NewBatchProcessor(extra),
			cfg.Level,
			cfg.Levels,
		)))
	}
	if o.res != nil {
		lpOpts = append(lpOpts, sdklog.WithResource(o.res))
	}
	return sdklog.NewLoggerProvider(lpOpts...)
}
