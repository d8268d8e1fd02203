// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gogama/lyla"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var now = time.Now

// A Collector records Prometheus metrics for the calls of every
// instance its hooks are installed on. It is safe for concurrent use.
type Collector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge

	starts sync.Map // correlation id -> inflight
}

// New creates a collector and registers its metrics on reg, with names
// prefixed by namespace (which may be empty):
//
//	<namespace>_requests_total{method,status,kind}
//	<namespace>_request_duration_seconds{method}
//	<namespace>_requests_in_flight
//
// The status label is empty when no response was obtained, and the kind
// label is empty for successful calls. New panics if the metrics cannot
// be registered, for example because reg already holds metrics of the
// same names.
func New(reg prometheus.Registerer, namespace string) *Collector {
	return &Collector{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of completed requests.",
			},
			[]string{"method", "status", "kind"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of completed requests in seconds, from the send until the response or error is handled.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		requestsInFlight: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "requests_in_flight",
				Help:      "Number of requests currently in flight.",
			},
		),
	}
}

// Hooks returns the hooks that feed the collector. Install them with
// Instance.Extend after any other hooks, so that the request is timed
// from the moment it is sent:
//
//	api = api.Extend(&lyla.Options{Hooks: c.Hooks()})
//
// Every call is counted once when it completes, however it ended. Only
// calls that reached the collector's OnBeforeRequest hook are timed and
// counted as in flight.
func (c *Collector) Hooks() lyla.Hooks {
	return lyla.Hooks{
		OnBeforeRequest: []lyla.OptionsHook{c.start},
		OnComplete:      []lyla.CompleteHook{c.complete},
	}
}

type inflight struct {
	t      time.Time
	method string
}

func (c *Collector) start(o *lyla.Options, id string) (*lyla.Options, error) {
	c.starts.Store(id, inflight{t: now(), method: o.Method})
	c.requestsInFlight.Inc()
	return o, nil
}

func (c *Collector) complete(r *lyla.Response, err error, id string) {
	var o *lyla.Options
	var status, kind string
	if e, ok := lyla.AsError(err); ok {
		o = e.Options
		kind = e.Kind.String()
		if e.Response != nil {
			status = strconv.Itoa(e.Response.Status)
		}
	} else if r != nil {
		o = r.Options
		status = strconv.Itoa(r.Status)
	}

	m := method(o)
	if v, ok := c.starts.LoadAndDelete(id); ok {
		s := v.(inflight)
		if m == "" {
			m = s.method
		}
		c.requestsInFlight.Dec()
		c.requestDuration.WithLabelValues(m).Observe(now().Sub(s.t).Seconds())
	}
	c.requestsTotal.WithLabelValues(m, status, kind).Inc()
}

func method(o *lyla.Options) string {
	if o == nil {
		return ""
	}
	return o.Method
}
