// Copyright (c) 2025 The PKNet developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics provides global access to a set of meters.
// It defaults to a no-op implementation; call InitializePrometheusMetrics
// to start collecting.
package metrics

import "net/http"

var metrics Metrics = defaultNoopMetrics()

// Metrics defines the interface for metrics service implementations.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateHandler() http.Handler
}

// CountMeter is a cumulative metric that represents a single monotonically
// increasing counter.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter same as the CountMeter but with labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a metric representing a single numeric value that can
// arbitrarily go up and down.
type GaugeMeter interface {
	Set(int64)
}

// Counter returns the counter with given name.
func Counter(name string) CountMeter { return metrics.GetOrCreateCountMeter(name) }

// CounterVec returns the labeled counter with given name.
func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.GetOrCreateCountVecMeter(name, labels)
}

// Gauge returns the gauge with given name.
func Gauge(name string) GaugeMeter { return metrics.GetOrCreateGaugeMeter(name) }

// HTTPHandler returns the http handler for retrieving metrics.
func HTTPHandler() http.Handler { return metrics.GetOrCreateHandler() }
