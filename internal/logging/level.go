// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package logging

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// ParseLevel converts a level name into its [log.Severity].
// Unknown names map to debug.
func ParseLevel(level string) log.Severity {
	switch strings.ToLower(level) {
	case "info":
		return log.SeverityInfo
	case "warn", "warning":
		return log.SeverityWarn
	case "error":
		return log.SeverityError
	default:
		return log.SeverityDebug
	}
}

// levelProcessor drops records below the minimum severity of their
// logger. Loggers are matched by the longest configured name prefix
// and fall back to the default minimum.
type levelProcessor struct {
	inner    sdklog.Processor
	min      log.Severity
	prefixes []string
	levels   map[string]log.Severity
}

func newLevelProcessor(inner sdklog.Processor, level string, levels map[string]string) *levelProcessor {
	p := &levelProcessor{
		inner:    inner,
		min:      ParseLevel(level),
		prefixes: make([]string, 0, len(levels)),
		levels:   make(map[string]log.Severity, len(levels)),
	}
	for name, lvl := range levels {
		p.prefixes = append(p.prefixes, name)
		p.levels[name] = ParseLevel(lvl)
	}
	slices.SortFunc(p.prefixes, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	return p
}

func (p *levelProcessor) minimum(name string) log.Severity {
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(name, prefix) {
			return p.levels[prefix]
		}
	}
	return p.min
}

// OnEmit implements the [sdklog.Processor] interface.
func (p *levelProcessor) OnEmit(ctx context.Context, record *sdklog.Record) error {
	if record.Severity() < p.minimum(record.InstrumentationScope().Name) {
		return nil
	}
	return p.inner.OnEmit(ctx, record)
}

// Shutdown implements the [sdklog.Processor] interface.
func (p *levelProcessor) Shutdown(ctx context.Context) error {
	return p.inner.Shutdown(ctx)
}

// ForceFlush implements the [sdklog.Processor] interface.
func (p *levelProcessor) ForceFlush(ctx context.Context) error {
	return p.inner.ForceFlush(ctx)
}
