// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"strings"
	"time"

	"github.com/gogama/lyla/request"
)

// A Policy defines a timeout policy which may be plugged into the HTTP
// transport adapter (transport.HTTP) to direct how long a request may
// take, from sending the request to reading the last byte of the
// response body.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the transport call for
	// the request plan p.
	Timeout(p *request.Plan) time.Duration
}

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of 30 seconds on each request.
var DefaultPolicy Policy = Fixed(30 * time.Second)

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that uses the same value for every
// request. The return value is a timeout policy that always returns the
// value d.
func Fixed(d time.Duration) Policy {
	return fixed(d)
}

type fixed time.Duration

func (f fixed) Timeout(_ *request.Plan) time.Duration {
	return time.Duration(f)
}

// ByMethod constructs a timeout policy that varies the timeout by HTTP
// method.
//
// Use ByMethod if some methods routinely take longer than others, for
// example slow uploads over POST next to quick GET lookups.
//
// Parameter usual is the timeout for any method without an entry in
// byMethod. Keys of byMethod are matched case-insensitively. The map is
// copied, so later changes to it have no effect on the policy.
//
// Consider the following timeout policy:
//
// 	p := ByMethod(2*time.Second, map[string]time.Duration{"POST": time.Minute})
//
// The policy p will use 2 seconds for every request except POST
// requests, which get one minute.
func ByMethod(usual time.Duration, byMethod map[string]time.Duration) Policy {
	m := make(map[string]time.Duration, len(byMethod))
	for method, d := range byMethod {
		m[strings.ToUpper(method)] = d
	}
	return methodPolicy{usual: usual, byMethod: m}
}

type methodPolicy struct {
	usual    time.Duration
	byMethod map[string]time.Duration
}

func (p methodPolicy) Timeout(plan *request.Plan) time.Duration {
	if d, ok := p.byMethod[plan.Method]; ok {
		return d
	}

	return p.usual
}
