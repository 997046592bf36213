// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kinrest

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"

	"github.com/z5labs/kinrest/internal/logging"
	"github.com/z5labs/kinrest/internal/telemetry"

	bedrockcfg "github.com/z5labs/bedrock/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
)

// ConfigSource standardizes the template for configuration of kinrest services.
// The [io.Reader] is expected to be YAML with support for Go templating.
// Two template functions are supported:
//   - env - substitutes an environment variable, or nil if it is unset
//   - default - define a default value in case the original value is nil
func ConfigSource(r io.Reader) bedrockcfg.Source {
	return bedrockcfg.FromYaml(
		bedrockcfg.RenderTextTemplate(
			r,
			bedrockcfg.TemplateFunc("env", func(key string) any {
				v, ok := os.LookupEnv(key)
				if ok {
					return v
				}
				return nil
			}),
			bedrockcfg.TemplateFunc("default", func(def, v any) any {
				if v == nil {
					return def
				}
				return v
			}),
		),
	)
}

//go:embed default_config.yaml
var defaultConfig []byte

// DefaultConfig returns the default config source which corresponds to the [Config] type.
func DefaultConfig() bedrockcfg.Source {
	return ConfigSource(bytes.NewReader(defaultConfig))
}

// Config defines the common configuration for all kinrest based services.
type Config struct {
	OTel    telemetry.Config `config:"otel"`
	Logging logging.Config   `config:"logging"`
}

// InitializeOTel implements the [appbuilder.OTelInitializer] interface.
// It installs the global tracer, meter and logger providers along with
// a W3C trace context and baggage propagator. Logs are always written as
// JSON lines to stdout and every signal is exported to the OTLP
// collector, if one is configured.
func (cfg Config) InitializeOTel(ctx context.Context) error {
	r, err := telemetry.DetectResource(ctx, cfg.OTel.Resource)
	if err != nil {
		return err
	}

	var conns telemetry.Conns

	tp, err := telemetry.NewTracerProvider(ctx, cfg.OTel.Trace, cfg.OTel.OTLP, r, &conns)
	if err != nil {
		return err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.Baggage{},
		propagation.TraceContext{},
	))

	mp, err := telemetry.NewMeterProvider(ctx, cfg.OTel.Metric, cfg.OTel.OTLP, r, &conns)
	if err != nil {
		return err
	}
	otel.SetMeterProvider(mp)

	exp, err := telemetry.NewLogExporter(ctx, cfg.OTel.OTLP, &conns)
	if err != nil {
		return err
	}

	opts := []logging.Option{logging.WithResource(r)}
	if exp != nil {
		opts = append(opts, logging.WithExporter(exp))
	}
	global.SetLoggerProvider(logging.NewLoggerProvider(cfg.Logging, os.Stdout, opts...))
	return nil
}
