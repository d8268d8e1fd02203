// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"net/http"

	"github.com/gogama/lyla/request"
)

// A Result is the raw outcome of a transport call which obtained a
// response: the status code, the response headers, and the complete,
// undecoded response body.
type Result struct {
	// Status is the HTTP status code. Any value is accepted; the lyla
	// pipeline decides what counts as success.
	Status int

	// Header contains the response header fields. It may be nil.
	Header http.Header

	// Body is the complete response body. It may be empty.
	Body []byte
}

// An Adapter is the pluggable capability that performs the network
// exchange for a request plan.
//
// Send returns a non-nil Result and a nil error whenever a response is
// obtained, regardless of its status code. It returns a nil Result and
// a non-nil error when no response could be obtained, for example
// because of a connection failure, a timeout, or cancellation of ctx.
//
// Implementations of Adapter must be safe for concurrent use by multiple
// goroutines.
type Adapter interface {
	Send(ctx context.Context, p *request.Plan) (*Result, error)
}

// The AdapterFunc type is an adapter to allow the use of ordinary
// functions as transport adapters. If f is a function with appropriate
// signature, then AdapterFunc(f) is an Adapter that calls f.
type AdapterFunc func(ctx context.Context, p *request.Plan) (*Result, error)

// Send calls f(ctx, p).
func (f AdapterFunc) Send(ctx context.Context, p *request.Plan) (*Result, error) {
	return f(ctx, p)
}

// An IdleCloser is an Adapter whose underlying connections can be
// released.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// Default is the adapter used when none is configured. It sends requests
// with http.DefaultClient under timeout.DefaultPolicy.
var Default Adapter = &HTTP{}
