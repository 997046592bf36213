// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"log/slog"
	"net/http"

	"github.com/z5labs/kinrest/health"
)

// Readiness reports the given [health.Monitor] at GET /health/readiness.
// Readiness probes indicate whether the application is ready to serve traffic.
// See [Liveness, Readiness, and Startup Probes] for more details.
//
// [Liveness, Readiness, and Startup Probes]: https://kubernetes.io/docs/concepts/configuration/liveness-readiness-startup-probes/
func Readiness(m health.Monitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.readiness.monitor = m
	})
}

// Liveness reports the given [health.Monitor] at GET /health/liveness.
// Liveness probes indicate whether the application should be restarted.
func Liveness(m health.Monitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.liveness.monitor = m
	})
}

// probe always reports healthy when monitor is nil.
type probe struct {
	monitor health.Monitor
	log     *slog.Logger
}

func (p *probe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p.monitor == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	healthy, err := p.monitor.Healthy(r.Context())
	if err != nil {
		p.log.ErrorContext(r.Context(), "failed to check health", slog.Any("error", err))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// whileServing makes readiness also depend on b, which is
// toggled by the server as it starts and stops serving.
func (api *Api) whileServing(b *health.Binary) {
	if api.readiness.monitor == nil {
		api.readiness.monitor = b
		return
	}
	api.readiness.monitor = health.And(b, api.readiness.monitor)
}
