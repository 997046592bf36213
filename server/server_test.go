// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/z5labs/kinrest/app"
	"github.com/z5labs/kinrest/health"

	"github.com/stretchr/testify/require"
)

type acceptFunc func() (net.Conn, error)

func (f acceptFunc) Accept() (net.Conn, error) {
	return f()
}

func (acceptFunc) Close() error {
	return nil
}

func (acceptFunc) Addr() net.Addr {
	return nil
}

func discardLog() Option {
	return ErrorLog(slog.NewTextHandler(io.Discard, nil))
}

func TestApp_Run(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the given net.Listener fails to accept a connection", func(t *testing.T) {
			acceptErr := errors.New("failed to accept conn")
			ls := acceptFunc(func() (net.Conn, error) {
				return nil, acceptErr
			})

			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

			a := NewApp(ls, h, discardLog())
			err := a.Run(context.Background())
			require.ErrorIs(t, err, acceptErr)
		})
	})

	t.Run("will not return an error", func(t *testing.T) {
		t.Run("if the context is cancelled before running", func(t *testing.T) {
			ls, err := net.Listen("tcp", ":0")
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

			a := NewApp(ls, h, discardLog())
			err = a.Run(ctx)
			require.NoError(t, err)
		})

		t.Run("if the context is cancelled while running", func(t *testing.T) {
			ls, err := net.Listen("tcp", ":0")
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer cancel()

				w.WriteHeader(http.StatusOK)
			})

			a := NewApp(ls, h, discardLog())

			errCh := make(chan error, 1)
			go func() {
				defer close(errCh)
				errCh <- a.Run(ctx)
			}()

			resp, err := http.DefaultClient.Get(fmt.Sprintf("http://%s/", a.Addr()))
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			err = <-errCh
			require.NoError(t, err)
		})
	})

	t.Run("will toggle readiness", func(t *testing.T) {
		ls, err := net.Listen("tcp", ":0")
		require.NoError(t, err)

		var ready health.Binary
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
		a := NewApp(ls, h, discardLog(), Readiness(&ready))

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			defer close(errCh)
			errCh <- a.Run(ctx)
		}()

		require.Eventually(t, func() bool {
			healthy, _ := ready.Healthy(context.Background())
			return healthy
		}, 5*time.Second, 10*time.Millisecond)

		cancel()
		require.NoError(t, <-errCh)

		healthy, err := ready.Healthy(context.Background())
		require.NoError(t, err)
		require.False(t, healthy)
	})
}

func TestConfig_Listener(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the port is already in use", func(t *testing.T) {
			ls, err := net.Listen("tcp", ":0")
			require.NoError(t, err)
			defer ls.Close()

			port := ls.Addr().(*net.TCPAddr).Port

			_, err = Config{Port: uint(port)}.Listener(context.Background())
			require.Error(t, err)
		})
	})
}

func TestBuild(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the handler fails to build", func(t *testing.T) {
			buildErr := errors.New("failed to build handler")
			b := Build(Config{}, app.Build(func(ctx context.Context) (http.Handler, error) {
				return nil, buildErr
			}))

			_, err := b.Build(context.Background())
			require.ErrorIs(t, err, buildErr)
		})
	})

	t.Run("will apply the configured timeouts", func(t *testing.T) {
		cfg := Config{
			ReadTimeout: time.Second,
		}

		b := Build(cfg, app.Build(func(ctx context.Context) (http.Handler, error) {
			return http.NotFoundHandler(), nil
		}), discardLog())

		a, err := b.Build(context.Background())
		require.NoError(t, err)
		defer a.ls.Close()

		require.Equal(t, time.Second, a.srv.ReadTimeout)
		require.Equal(t, 2*time.Second, a.srv.ReadHeaderTimeout)
		require.Equal(t, 10*time.Second, a.srv.WriteTimeout)
		require.Equal(t, 120*time.Second, a.srv.IdleTimeout)
		require.Equal(t, 1<<20, a.srv.MaxHeaderBytes)
		require.Equal(t, 10*time.Second, a.shutdown)
	})

	t.Run("will serve the built handler", func(t *testing.T) {
		b := Build(Config{}, app.Build(func(ctx context.Context) (http.Handler, error) {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			}), nil
		}), discardLog())

		a, err := b.Build(context.Background())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			defer close(errCh)
			errCh <- a.Run(ctx)
		}()

		resp, err := http.DefaultClient.Get(fmt.Sprintf("http://%s/", a.Addr()))
		require.NoError(t, err)
		require.Equal(t, http.StatusTeapot, resp.StatusCode)

		cancel()
		require.NoError(t, <-errCh)
	})
}
