// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package server serves an [http.Handler] until its context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/z5labs/kinrest"
	"github.com/z5labs/kinrest/app"
	"github.com/z5labs/kinrest/health"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const instrumentationName = "github.com/z5labs/kinrest/server"

// Config is the http section of the service config.
// Zero durations are replaced by the defaults documented on each field.
type Config struct {
	// Port is the TCP port to listen on. Port 0 picks any free port.
	Port uint `config:"port"`

	// ReadTimeout defaults to 5 seconds.
	ReadTimeout time.Duration `config:"read_timeout"`

	// ReadHeaderTimeout defaults to 2 seconds.
	ReadHeaderTimeout time.Duration `config:"read_header_timeout"`

	// WriteTimeout defaults to 10 seconds.
	WriteTimeout time.Duration `config:"write_timeout"`

	// IdleTimeout defaults to 120 seconds.
	IdleTimeout time.Duration `config:"idle_timeout"`

	// ShutdownTimeout bounds the graceful shutdown and defaults to 10 seconds.
	ShutdownTimeout time.Duration `config:"shutdown_timeout"`

	// MaxHeaderBytes defaults to 1 MB.
	MaxHeaderBytes int `config:"max_header_bytes"`
}

// Listener opens the TCP listener for cfg.
func (cfg Config) Listener(ctx context.Context) (net.Listener, error) {
	var lc net.ListenConfig
	ls, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", cfg.Port, err)
	}
	return ls, nil
}

func (cfg Config) httpServer(h http.Handler, errLog slog.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadTimeout:       orDefault(cfg.ReadTimeout, 5*time.Second),
		ReadHeaderTimeout: orDefault(cfg.ReadHeaderTimeout, 2*time.Second),
		WriteTimeout:      orDefault(cfg.WriteTimeout, 10*time.Second),
		IdleTimeout:       orDefault(cfg.IdleTimeout, 120*time.Second),
		MaxHeaderBytes:    orDefault(cfg.MaxHeaderBytes, 1<<20),
		ErrorLog:          slog.NewLogLogger(errLog, slog.LevelError),
	}
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// Options are configurable parameters of an [App].
type Options struct {
	errLog    slog.Handler
	readiness *health.Binary
}

// Option sets a value on [Options].
type Option interface {
	ApplyOption(*Options)
}

type optionFunc func(*Options)

func (f optionFunc) ApplyOption(o *Options) {
	f(o)
}

// ErrorLog sets the handler for errors logged by the underlying [http.Server].
func ErrorLog(h slog.Handler) Option {
	return optionFunc(func(o *Options) {
		o.errLog = h
	})
}

// Readiness marks b healthy once the [App] starts serving and
// unhealthy as soon as it begins shutting down.
func Readiness(b *health.Binary) Option {
	return optionFunc(func(o *Options) {
		o.readiness = b
	})
}

// App serves HTTP requests accepted from a [net.Listener].
type App struct {
	ls        net.Listener
	srv       *http.Server
	readiness *health.Binary
	shutdown  time.Duration
}

// NewApp initializes an [App] with default timeouts.
func NewApp(ls net.Listener, h http.Handler, opts ...Option) *App {
	return newApp(ls, Config{}, h, opts...)
}

func newApp(ls net.Listener, cfg Config, h http.Handler, opts ...Option) *App {
	o := &Options{
		errLog:    kinrest.LogHandler(instrumentationName),
		readiness: &health.Binary{},
	}
	for _, opt := range opts {
		opt.ApplyOption(o)
	}

	return &App{
		ls:        ls,
		srv:       cfg.httpServer(h, o.errLog),
		readiness: o.readiness,
		shutdown:  orDefault(cfg.ShutdownTimeout, 10*time.Second),
	}
}

// Addr returns the address the [App] is listening on.
func (a *App) Addr() net.Addr {
	return a.ls.Addr()
}

// Run serves requests until ctx is cancelled, after which it gracefully
// shuts down. A failure to serve also shuts the [App] down and is returned.
func (a *App) Run(ctx context.Context) error {
	p := pool.New().WithContext(ctx).WithCancelOnError()

	p.Go(func(ctx context.Context) error {
		a.readiness.MarkHealthy()

		err := a.srv.Serve(a.ls)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		a.readiness.MarkUnhealthy()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdown)
		defer cancel()

		return a.srv.Shutdown(shutdownCtx)
	})

	return p.Wait()
}

// Build returns an [app.Builder] which listens according to cfg and
// serves the built handler instrumented with OTel.
func Build(cfg Config, b app.Builder[http.Handler], opts ...Option) app.Builder[*App] {
	return app.Bind(b, func(h http.Handler) app.Builder[*App] {
		return app.BuilderFunc[*App](func(ctx context.Context) (*App, error) {
			ls, err := cfg.Listener(ctx)
			if err != nil {
				return nil, err
			}

			h = otelhttp.NewHandler(
				h,
				"kinrest",
				otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
			)
			return newApp(ls, cfg, h, opts...), nil
		})
	})
}
