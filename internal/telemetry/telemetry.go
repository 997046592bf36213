// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package telemetry builds the OTel tracer and meter providers, and the
// OTLP log exporter, from the otel section of the service config.
package telemetry

// Config is the otel section of the service config. Every signal is
// exported to the same collector.
type Config struct {
	Resource Resource `config:"resource"`
	OTLP     OTLP     `config:"otlp"`
	Trace    Trace    `config:"trace"`
	Metric   Metric   `config:"metric"`
}
