// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"
)

// A Waiter computes how long to wait before the next attempt.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
type Waiter interface {
	Wait(a *Attempt) time.Duration
}

// DefaultWaiter is an exponential waiter with jitter, starting at 50ms
// and capped at 1s.
var DefaultWaiter = NewExpWaiter(50*time.Millisecond, 1*time.Second, time.Now())

// NewFixedWaiter returns a Waiter which always waits d.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *Attempt) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter returns a Waiter whose wait ceiling doubles with each
// attempt, from base up to max. It panics unless 0 < base <= max.
//
// The jitter parameter selects the random source used to pick a wait
// in [0, ceiling). It may be nil (no jitter: always wait the ceiling),
// a time.Time or an int or int64 seed, a rand.Source, or a *rand.Rand.
// Any other value panics.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("lyla/retry: base must be positive")
	}
	if max < base {
		panic("lyla/retry: max must be at least base")
	}
	return &expWaiter{
		base: base,
		max:  max,
		rand: jitterToRand(jitter),
	}
}

type expWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *expWaiter) Wait(a *Attempt) time.Duration {
	ceil := int64(w.max)
	if a.Index < 62 {
		c := int64(w.base) << a.Index
		if c >= int64(w.base) && c < ceil {
			ceil = c
		}
	}

	if w.rand == nil {
		return time.Duration(ceil)
	}
	w.lock.Lock()
	defer w.lock.Unlock()
	return time.Duration(w.rand.Int63n(ceil))
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("lyla/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("lyla/retry: invalid jitter type")
	}
	return rand.New(s)
}
