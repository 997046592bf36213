// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kinrest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/z5labs/bedrock"
)

type appFunc func(context.Context) error

func (f appFunc) Run(ctx context.Context) error {
	return f(ctx)
}

func TestRunner_Run(t *testing.T) {
	t.Run("will handle the error", func(t *testing.T) {
		t.Run("if the app fails to build", func(t *testing.T) {
			buildErr := errors.New("failed to build")
			builder := bedrock.AppBuilderFunc[string](func(ctx context.Context, cfg string) (bedrock.App, error) {
				return nil, buildErr
			})

			var handled error
			r := NewRunner(builder, OnError(ErrorHandlerFunc(func(err error) {
				handled = err
			})))
			r.Run(context.Background(), "cfg")

			require.ErrorIs(t, handled, buildErr)
		})

		t.Run("if the app fails to run", func(t *testing.T) {
			runErr := errors.New("failed to run")
			builder := bedrock.AppBuilderFunc[string](func(ctx context.Context, cfg string) (bedrock.App, error) {
				return appFunc(func(ctx context.Context) error {
					return runErr
				}), nil
			})

			var handled error
			r := NewRunner(builder, OnError(ErrorHandlerFunc(func(err error) {
				handled = err
			})))
			r.Run(context.Background(), "cfg")

			require.ErrorIs(t, handled, runErr)
		})
	})

	t.Run("will not call the error handler", func(t *testing.T) {
		t.Run("if the app runs successfully", func(t *testing.T) {
			var cfgSeen string
			builder := bedrock.AppBuilderFunc[string](func(ctx context.Context, cfg string) (bedrock.App, error) {
				cfgSeen = cfg
				return appFunc(func(ctx context.Context) error {
					return nil
				}), nil
			})

			called := false
			r := NewRunner(builder, OnError(ErrorHandlerFunc(func(err error) {
				called = true
			})))
			r.Run(context.Background(), "cfg")

			require.False(t, called)
			require.Equal(t, "cfg", cfgSeen)
		})
	})
}
