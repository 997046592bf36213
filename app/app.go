// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app composes the steps which build a runnable component,
// e.g. building an [http.Handler] and then the server which serves it.
package app

import (
	"context"
	"fmt"
)

// Builder builds a T, typically from config read earlier.
type Builder[T any] interface {
	Build(context.Context) (T, error)
}

// BuilderFunc is a func type of the [Builder] interface.
type BuilderFunc[T any] func(context.Context) (T, error)

// Build implements the [Builder] interface.
func (f BuilderFunc[T]) Build(ctx context.Context) (T, error) {
	return f(ctx)
}

// Build creates a [Builder] from a func.
func Build[T any](f func(context.Context) (T, error)) Builder[T] {
	return BuilderFunc[T](f)
}

// Bind chains two Builders together, where the output of the first is used to create the second.
func Bind[A, B any](builder Builder[A], binder func(A) Builder[B]) Builder[B] {
	return BuilderFunc[B](func(ctx context.Context) (B, error) {
		a, err := builder.Build(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return binder(a).Build(ctx)
	})
}

// Map transforms the output of builder with f.
func Map[A, B any](builder Builder[A], f func(A) B) Builder[B] {
	return Bind(builder, func(a A) Builder[B] {
		return BuilderFunc[B](func(context.Context) (B, error) {
			return f(a), nil
		})
	})
}

// Runtime is a component which runs until its context is cancelled.
type Runtime interface {
	Run(context.Context) error
}

// RuntimeFunc is a func type of the [Runtime] interface.
type RuntimeFunc func(context.Context) error

// Run implements the [Runtime] interface.
func (f RuntimeFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Recover converts a panic raised by rt into an error.
func Recover(rt Runtime) Runtime {
	return RuntimeFunc(func(ctx context.Context) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("recovered from panic: %w", rerr)
				return
			}
			err = fmt.Errorf("recovered from panic: %v", r)
		}()

		return rt.Run(ctx)
	})
}
