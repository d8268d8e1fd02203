// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"io"
	"time"

	"github.com/gogama/lyla"
	"github.com/gogama/lyla/request"
	"github.com/gogama/lyla/transport"
)

// A Requester is a lyla.Requester which retries the calls of the
// Requester it wraps according to a Policy.
type Requester struct {
	// Requester makes each attempt. It must not be nil.
	Requester lyla.Requester

	// Policy decides whether to retry. If nil, DefaultPolicy is used.
	Policy Policy
}

// New returns a Requester retrying r according to p.
func New(r lyla.Requester, p Policy) *Requester {
	return &Requester{Requester: r, Policy: p}
}

// Do calls the wrapped Requester until it succeeds, the policy declines
// to retry, or ctx is done, and returns the outcome of the last attempt.
// The options o are passed unchanged to every attempt, except that an
// io.Reader body is read once up front so every attempt sends it whole.
func (r *Requester) Do(ctx context.Context, o *lyla.Options) (*lyla.Response, error) {
	p := r.policy()
	if o != nil {
		if _, ok := o.Body.(io.Reader); ok {
			o2 := *o
			o2.Body = request.Buffer(o.Body)
			o = &o2
		}
	}
	a := Attempt{Start: now()}
	for {
		a.Response, a.Err = r.Requester.Do(ctx, o)
		if ctx.Err() != nil || !p.Decide(&a) {
			return a.Response, a.Err
		}
		if !sleep(ctx, p.Wait(&a)) {
			return a.Response, a.Err
		}
		a.Index++
	}
}

// CloseIdleConnections closes idle connections of the wrapped Requester
// if it supports doing so.
func (r *Requester) CloseIdleConnections() {
	if ic, ok := r.Requester.(transport.IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (r *Requester) policy() Policy {
	if r.Policy == nil {
		return DefaultPolicy
	}
	return r.Policy
}

// sleep waits for d and reports whether it did so before ctx was done.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
