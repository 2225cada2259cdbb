// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package meter

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/observe/xmetrics"
	themisXmetrics "github.com/xmidt-org/themis/xmetrics"
	"go.uber.org/fx"
)

// Names for our metrics
const (
	DurationName     = "observation_duration_seconds"
	ActiveName       = "observation_active"
	ErrorsName       = "observation_errors_count"
	ScopesOpenedName = "observation_scopes_opened_count"
)

// labels
const (
	NameLabel  = "name"
	ErrorLabel = "error"

	// NoError is the ErrorLabel value of an observation that stopped without an error
	NoError = "none"
)

const (
	durationHelp     = "Duration of stopped observations, in seconds"
	activeHelp       = "Number of observations started but not yet stopped"
	errorsHelp       = "Count of errors recorded on observations"
	scopesOpenedHelp = "Count of scopes opened for observations"
)

// Metrics returns the Metrics relevant to this package, for use with xmetrics.NewRegistry
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name:       DurationName,
			Type:       xmetrics.HistogramType,
			Help:       durationHelp,
			Buckets:    prometheus.DefBuckets,
			LabelNames: []string{NameLabel, ErrorLabel},
		},
		{
			Name:       ActiveName,
			Type:       xmetrics.GaugeType,
			Help:       activeHelp,
			LabelNames: []string{NameLabel},
		},
		{
			Name:       ErrorsName,
			Type:       xmetrics.CounterType,
			Help:       errorsHelp,
			LabelNames: []string{NameLabel, ErrorLabel},
		},
		{
			Name:       ScopesOpenedName,
			Type:       xmetrics.CounterType,
			Help:       scopesOpenedHelp,
			LabelNames: []string{NameLabel},
		},
	}
}

// ProvideMetrics provides the metrics relevant to this package as uber/fx options.
func ProvideMetrics() fx.Option {
	return fx.Provide(
		themisXmetrics.ProvideHistogram(prometheus.HistogramOpts{
			Name:    DurationName,
			Help:    durationHelp,
			Buckets: prometheus.DefBuckets,
		}, NameLabel, ErrorLabel),
		themisXmetrics.ProvideGauge(prometheus.GaugeOpts{
			Name: ActiveName,
			Help: activeHelp,
		}, NameLabel),
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: ErrorsName,
			Help: errorsHelp,
		}, NameLabel, ErrorLabel),
		themisXmetrics.ProvideCounter(prometheus.CounterOpts{
			Name: ScopesOpenedName,
			Help: scopesOpenedHelp,
		}, NameLabel),
	)
}

// Measures are the metrics updated by a Handler
type Measures struct {
	Duration     metrics.Histogram
	Active       metrics.Gauge
	Errors       metrics.Counter
	ScopesOpened metrics.Counter
}

// NewMeasures realizes desired metrics.  It's intended to be used alongside Metrics() for
// applications that do not use uber/fx.
func NewMeasures(p provider.Provider) *Measures {
	return &Measures{
		Duration:     p.NewHistogram(DurationName, 0),
		Active:       p.NewGauge(ActiveName),
		Errors:       p.NewCounter(ErrorsName),
		ScopesOpened: p.NewCounter(ScopesOpenedName),
	}
}

// MeasuresIn is an uber/fx parameter with the metrics from ProvideMetrics
type MeasuresIn struct {
	fx.In

	Duration     metrics.Histogram `name:"observation_duration_seconds"`
	Active       metrics.Gauge     `name:"observation_active"`
	Errors       metrics.Counter   `name:"observation_errors_count"`
	ScopesOpened metrics.Counter   `name:"observation_scopes_opened_count"`
}

func NewMeasuresIn(in MeasuresIn) *Measures {
	return &Measures{
		Duration:     in.Duration,
		Active:       in.Active,
		Errors:       in.Errors,
		ScopesOpened: in.ScopesOpened,
	}
}
