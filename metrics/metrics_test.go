// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gogama/lyla"
	"github.com/gogama/lyla/request"
	"github.com/gogama/lyla/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg, "test")
	require.NotNil(t, c)
	c.requestsTotal.WithLabelValues("GET", "200", "").Inc()
	c.requestDuration.WithLabelValues("GET").Observe(1)

	n, err := testutil.GatherAndCount(reg,
		"test_requests_total", "test_request_duration_seconds", "test_requests_in_flight")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Panics(t, func() {
		New(reg, "test")
	}, "duplicate registration must panic")
}

func TestCollector_Hooks(t *testing.T) {
	clock := time.Unix(0, 0)
	now = func() time.Time {
		clock = clock.Add(250 * time.Millisecond)
		return clock
	}
	defer func() { now = time.Now }()

	testCases := []struct {
		name    string
		status  int
		err     error
		labels  []string
		timed   bool
		wantErr bool
	}{
		{
			name:   "ok",
			status: 200,
			labels: []string{"GET", "200", ""},
			timed:  true,
		},
		{
			name:    "http error",
			status:  503,
			labels:  []string{"GET", "503", "HTTP_ERROR"},
			timed:   true,
			wantErr: true,
		},
		{
			name:    "no response",
			err:     errors.New("connection refused"),
			labels:  []string{"GET", "", "NO_RESPONSE"},
			timed:   true,
			wantErr: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			c := New(reg, "")
			var inFlight float64
			adapter := transport.AdapterFunc(func(_ context.Context, _ *request.Plan) (*transport.Result, error) {
				inFlight = testutil.ToFloat64(c.requestsInFlight)
				if testCase.err != nil {
					return nil, testCase.err
				}
				return &transport.Result{Status: testCase.status}, nil
			})
			in := lyla.New(nil, adapter).Extend(&lyla.Options{Hooks: c.Hooks()})

			_, err := in.Get(context.Background(), "http://example.com/", nil)

			assert.Equal(t, testCase.wantErr, err != nil)
			assert.Equal(t, float64(1), inFlight)
			assert.Equal(t, float64(0), testutil.ToFloat64(c.requestsInFlight))
			assert.Equal(t, float64(1), testutil.ToFloat64(c.requestsTotal.WithLabelValues(testCase.labels...)))
			assert.Equal(t, 1, testutil.CollectAndCount(c.requestDuration))
		})
	}

	t.Run("ended without error hooks", func(t *testing.T) {
		failed := errors.New("schema mismatch")
		outcomes := []struct {
			name   string
			hooks  lyla.Hooks
			status int
			labels []string
		}{
			{
				name: "hook error after response",
				hooks: lyla.Hooks{OnAfterResponse: []lyla.ResponseHook{func(*lyla.Response, string) (*lyla.Response, error) {
					return nil, failed
				}}},
				status: 200,
				labels: []string{"GET", "200", "HOOK_ERROR"},
			},
			{
				name: "recovered",
				hooks: lyla.Hooks{OnResponseError: []lyla.ErrorHook{func(e *lyla.Error, _ string) (*lyla.Response, error) {
					return e.Response, nil
				}}},
				status: 502,
				labels: []string{"GET", "502", ""},
			},
			{
				name: "response replaced without options",
				hooks: lyla.Hooks{OnAfterResponse: []lyla.ResponseHook{func(*lyla.Response, string) (*lyla.Response, error) {
					return &lyla.Response{Status: 201}, nil
				}}},
				status: 200,
				labels: []string{"GET", "201", ""},
			},
		}
		for _, outcome := range outcomes {
			t.Run(outcome.name, func(t *testing.T) {
				reg := prometheus.NewRegistry()
				c := New(reg, "")
				in := lyla.New(nil, transport.AdapterFunc(func(context.Context, *request.Plan) (*transport.Result, error) {
					return &transport.Result{Status: outcome.status}, nil
				})).Extend(&lyla.Options{Hooks: c.Hooks()}).Extend(&lyla.Options{Hooks: outcome.hooks})

				for i := 0; i < 3; i++ {
					_, _ = in.Get(context.Background(), "http://example.com/", nil)
				}

				assert.Equal(t, float64(0), testutil.ToFloat64(c.requestsInFlight))
				assert.Equal(t, float64(3), testutil.ToFloat64(c.requestsTotal.WithLabelValues(outcome.labels...)))
				assert.Equal(t, 1, testutil.CollectAndCount(c.requestDuration))
				c.starts.Range(func(k, _ interface{}) bool {
					t.Errorf("start of %v not released", k)
					return true
				})
			})
		}
	})
	t.Run("invalid response type", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c := New(reg, "")
		in := lyla.New(&lyla.Options{ResponseType: "document"}, transport.AdapterFunc(
			func(context.Context, *request.Plan) (*transport.Result, error) {
				t.Error("must not send")
				return nil, nil
			})).Extend(&lyla.Options{Hooks: c.Hooks()})

		_, err := in.Get(context.Background(), "http://example.com/", nil)

		assert.True(t, lyla.IsKind(err, lyla.NoResponse))
		assert.Equal(t, float64(1), testutil.ToFloat64(c.requestsTotal.WithLabelValues("GET", "", "NO_RESPONSE")))
		assert.Equal(t, 0, testutil.CollectAndCount(c.requestDuration))
		assert.Equal(t, float64(0), testutil.ToFloat64(c.requestsInFlight))
	})
}
