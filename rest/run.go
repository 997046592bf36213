// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"log/slog"
	"net/http"
	"os"
	"syscall"

	"github.com/z5labs/kinrest"
	"github.com/z5labs/kinrest/app"
	"github.com/z5labs/kinrest/health"
	"github.com/z5labs/kinrest/server"

	"github.com/z5labs/bedrock"
	bedrockapp "github.com/z5labs/bedrock/app"
	"github.com/z5labs/bedrock/appbuilder"
	"github.com/z5labs/bedrock/config"
	"github.com/z5labs/bedrock/lifecycle"
)

//go:embed default_config.yaml
var defaultConfig []byte

// DefaultConfig returns the config source which provides the
// defaults of every field in [Config], including the ones
// inherited from [kinrest.Config].
func DefaultConfig() config.Source {
	return config.MultiSource(
		kinrest.DefaultConfig(),
		kinrest.ConfigSource(bytes.NewReader(defaultConfig)),
	)
}

// Configer is leveraged to constrain the custom config type into
// supporting specific initialization behaviour required by [Run].
type Configer interface {
	appbuilder.OTelInitializer

	HttpServerConfig() server.Config
}

// Config is the default config which can be easily embedded into a
// more custom service specific config.
type Config struct {
	kinrest.Config `config:",squash"`

	OpenApi struct {
		Title   string `config:"title"`
		Version string `config:"version"`
	} `config:"openapi"`

	HTTP server.Config `config:"http"`
}

// HttpServerConfig implements the [Configer] interface.
func (c Config) HttpServerConfig() server.Config {
	return c.HTTP
}

// Builder initializes a [bedrock.AppBuilder] which serves the [Api]
// returned by f. The readiness probe of the [Api] only reports healthy
// while the server is serving.
func Builder[T Configer](f func(context.Context, T) (*Api, error)) bedrock.AppBuilder[T] {
	return appbuilder.LifecycleContext(
		appbuilder.OTel(
			appbuilder.Recover(
				bedrock.AppBuilderFunc[T](func(ctx context.Context, cfg T) (bedrock.App, error) {
					var serving health.Binary

					handler := app.Map(
						app.Build(func(ctx context.Context) (*Api, error) {
							return f(ctx, cfg)
						}),
						func(api *Api) http.Handler {
							api.whileServing(&serving)
							return api
						},
					)

					srv, err := server.Build(
						cfg.HttpServerConfig(),
						handler,
						server.Readiness(&serving),
					).Build(ctx)
					if err != nil {
						return nil, err
					}

					return bedrockapp.InterruptOn(
						app.Recover(srv),
						os.Kill,
						os.Interrupt,
						syscall.SIGTERM,
					), nil
				}),
			),
		),
		&lifecycle.Context{},
	)
}

// RunOptions are used for configuring the running of an [Api].
type RunOptions struct {
	logger *slog.Logger
}

// RunOption sets a value on [RunOptions].
type RunOption interface {
	ApplyRunOption(*RunOptions)
}

type runOptionFunc func(*RunOptions)

func (f runOptionFunc) ApplyRunOption(ro *RunOptions) {
	f(ro)
}

// LogHandler overrides the default [slog.Handler] used for logging
// any error encountered while building or running the [Api].
func LogHandler(h slog.Handler) RunOption {
	return runOptionFunc(func(ro *RunOptions) {
		ro.logger = slog.New(h)
	})
}

// Run begins by reading, parsing and unmarshaling your custom config into
// the type T. Then it calls f to initialize your [Api] and serves it over
// HTTP until the process receives an interrupt or SIGTERM. Panics are
// recovered and the OTel SDK is initialized before f is called and shut
// down once the server stops.
func Run[T Configer](r io.Reader, f func(context.Context, T) (*Api, error), opts ...RunOption) {
	ro := &RunOptions{
		logger: slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{})),
	}
	for _, opt := range opts {
		opt.ApplyRunOption(ro)
	}

	runner := kinrest.NewRunner(
		appbuilder.FromConfig(Builder(f)),
		kinrest.OnError(kinrest.ErrorHandlerFunc(func(err error) {
			ro.logger.Error("unexpected error while running rest app", slog.Any("error", err))
		})),
	)
	runner.Run(
		context.Background(),
		config.MultiSource(
			DefaultConfig(),
			kinrest.ConfigSource(r),
		),
	)
}
