// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package kinrest provides the base config, logging helpers and runner
// shared by every kinrest based service.
package kinrest

import (
	"context"
	"log/slog"
	"os"

	"github.com/z5labs/bedrock"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] which forwards records to the global
// OTel logger provider under the given instrumentation scope name.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// LogHandler is like [Logger] but returns the underlying [slog.Handler].
func LogHandler(name string) slog.Handler {
	return otelslog.NewHandler(name)
}

// RunnerOptions are configurable parameters of a [Runner].
type RunnerOptions struct {
	errHandler ErrorHandler
}

// RunnerOption sets a value on [RunnerOptions].
type RunnerOption interface {
	ApplyRunnerOption(*RunnerOptions)
}

type runnerOptionFunc func(*RunnerOptions)

func (f runnerOptionFunc) ApplyRunnerOption(ro *RunnerOptions) {
	f(ro)
}

// ErrorHandler is called with any error returned while building
// or running a [bedrock.App].
type ErrorHandler interface {
	HandleError(error)
}

// ErrorHandlerFunc is a func type of the [ErrorHandler] interface.
type ErrorHandlerFunc func(error)

// HandleError implements the [ErrorHandler] interface.
func (f ErrorHandlerFunc) HandleError(err error) {
	f(err)
}

// OnError registers the given [ErrorHandler] with the [Runner].
func OnError(eh ErrorHandler) RunnerOption {
	return runnerOptionFunc(func(ro *RunnerOptions) {
		ro.errHandler = eh
	})
}

// Runner builds a [bedrock.App] and runs it.
type Runner[T any] struct {
	builder    bedrock.AppBuilder[T]
	errHandler ErrorHandler
}

// NewRunner initializes a [Runner]. By default, errors are written
// as JSON to stdout since the OTel logger provider may not have
// been initialized, or may already be shut down, when they occur.
func NewRunner[T any](builder bedrock.AppBuilder[T], opts ...RunnerOption) Runner[T] {
	ro := &RunnerOptions{
		errHandler: ErrorHandlerFunc(func(err error) {
			log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{}))
			log.Error("failed to run", slog.Any("error", err))
		}),
	}
	for _, opt := range opts {
		opt.ApplyRunnerOption(ro)
	}
	return Runner[T]{
		builder:    builder,
		errHandler: ro.errHandler,
	}
}

// Run builds a [bedrock.App], runs it, and hands any error
// returned from either of those steps to the [ErrorHandler].
func (r Runner[T]) Run(ctx context.Context, cfg T) {
	app, err := r.builder.Build(ctx, cfg)
	if err != nil {
		r.errHandler.HandleError(err)
		return
	}

	err = app.Run(ctx)
	if err == nil {
		return
	}
	r.errHandler.HandleError(err)
}
