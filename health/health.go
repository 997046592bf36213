// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package health reports whether a service is able to serve traffic.
// The monitors are exposed over HTTP by [rest.Readiness] and [rest.Liveness].
package health

import (
	"context"
	"errors"
	"sync/atomic"
)

// Monitor reports the current health of a component.
type Monitor interface {
	Healthy(context.Context) (bool, error)
}

// MonitorFunc adapts a plain func into a [Monitor].
type MonitorFunc func(context.Context) (bool, error)

// Healthy implements the [Monitor] interface.
func (f MonitorFunc) Healthy(ctx context.Context) (bool, error) {
	return f(ctx)
}

// Binary is a [Monitor] which is toggled between healthy and unhealthy.
// It is safe for concurrent use and starts out unhealthy.
type Binary struct {
	healthy atomic.Bool
}

// MarkUnhealthy toggles b to unhealthy.
func (b *Binary) MarkUnhealthy() {
	b.healthy.Store(false)
}

// MarkHealthy toggles b to healthy.
func (b *Binary) MarkHealthy() {
	b.healthy.Store(true)
}

// Healthy implements the [Monitor] interface.
func (b *Binary) Healthy(ctx context.Context) (bool, error) {
	return b.healthy.Load(), nil
}

// AndMonitor is healthy only if all of its monitors are.
type AndMonitor []Monitor

// And combines the given monitors into an [AndMonitor].
func And(ms ...Monitor) AndMonitor {
	return AndMonitor(ms)
}

// Healthy implements the [Monitor] interface. It stops at the first
// monitor which is unhealthy or fails.
func (am AndMonitor) Healthy(ctx context.Context) (bool, error) {
	for _, m := range am {
		healthy, err := m.Healthy(ctx)
		if err != nil {
			return false, err
		}
		if !healthy {
			return false, nil
		}
	}
	return true, nil
}

// OrMonitor is healthy if at least one of its monitors is.
type OrMonitor []Monitor

// Or combines the given monitors into an [OrMonitor].
func Or(ms ...Monitor) OrMonitor {
	return OrMonitor(ms)
}

// Healthy implements the [Monitor] interface. Failures are only
// reported if no monitor is healthy.
func (om OrMonitor) Healthy(ctx context.Context) (bool, error) {
	var errs []error
	for _, m := range om {
		healthy, err := m.Healthy(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if healthy {
			return true, nil
		}
	}
	return false, errors.Join(errs...)
}
