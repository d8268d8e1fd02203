// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/lyla"
)

var now = time.Now

// An Attempt is the outcome of one call through the wrapped Requester.
type Attempt struct {
	// Index is the zero-based number of the attempt.
	Index int

	// Start is the time the first attempt started.
	Start time.Time

	// Response is the response returned by the attempt, if any.
	Response *lyla.Response

	// Err is the error returned by the attempt, if any.
	Err error
}

// Status returns the status code the attempt received, looking in the
// error's response if the attempt failed. It returns zero if no
// response was received.
func (a *Attempt) Status() int {
	if a.Response != nil {
		return a.Response.Status
	}
	if e, ok := lyla.AsError(a.Err); ok {
		return e.Status()
	}
	return 0
}

// Elapsed returns the time since the first attempt started.
func (a *Attempt) Elapsed() time.Duration {
	return now().Sub(a.Start)
}
