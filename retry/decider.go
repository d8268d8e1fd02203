// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/lyla"
	"github.com/gogama/lyla/transient"
)

// A Decider decides if another attempt should be made.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in constructors Times, StatusCode, and Before, and the
// built-in decider TransientErr; or implement your own. DeciderFunc
// converts an ordinary function into a Decider and composes deciders
// with And and Or.
type Decider interface {
	Decide(a *Attempt) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as deciders. Every DeciderFunc must be safe for concurrent
// use by multiple goroutines.
type DeciderFunc func(a *Attempt) bool

// DefaultTimes is the number of times DefaultPolicy will retry.
const DefaultTimes = 3

// DefaultDecider allows up to DefaultTimes retries (so up to 4 total
// attempts), and retries on a transient transport error (TransientErr)
// or on an HTTPError carrying status 429, 502, 503 or 504.
var DefaultDecider = Times(DefaultTimes).And(StatusCode(429, 502, 503, 504).Or(TransientErr))

// TransientErr retries NoResponse errors whose cause is transient
// according to transient.Categorize. Cancellation is not transient for
// this purpose.
var TransientErr DeciderFunc = transientErr

// Decide calls f(a).
func (f DeciderFunc) Decide(a *Attempt) bool {
	return f(a)
}

// And composes two deciders into one which retries only if both agree.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(a *Attempt) bool {
		return f(a) && g(a)
	}
}

// Or composes two deciders into one which retries if either agrees.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(a *Attempt) bool {
		return f(a) || g(a)
	}
}

// Times returns a decider which allows n retries.
func Times(n int) DeciderFunc {
	return func(a *Attempt) bool {
		return a.Index < n
	}
}

// Before returns a decider which allows retries only while less than d
// has passed since the first attempt started.
func Before(d time.Duration) DeciderFunc {
	return func(a *Attempt) bool {
		return a.Elapsed() < d
	}
}

// StatusCode returns a decider which retries HTTPError failures
// carrying one of the given status codes. Successful responses are
// never retried, even if a hook recovered them from an error.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(a *Attempt) bool {
		if !lyla.IsKind(a.Err, lyla.HTTPError) {
			return false
		}
		status := a.Status()
		for _, s := range ss2 {
			if status == s {
				return true
			}
		}
		return false
	}
}

func transientErr(a *Attempt) bool {
	e, ok := lyla.AsError(a.Err)
	if !ok {
		return false
	}
	c := e.Transience()
	return c != transient.Not && c != transient.Canceled
}
