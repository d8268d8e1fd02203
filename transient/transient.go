// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// A Category describes why a transport could not obtain a response, as
// reported by function Categorize.
//
// The category Not means the cause is none of the recognised network
// conditions. It is also the category of a nil error.
type Category int

const (
	// Not indicates an error with no recognised network cause, for
	// example an invalid request plan.
	Not Category = iota
	// Timeout indicates a client-side timeout: the error or one of its
	// wrapped causes has a Timeout() method that reports true. Deadline
	// expiry of the request context is a Timeout.
	Timeout
	// Canceled indicates the request context was cancelled, i.e. the
	// caller aborted the request.
	Canceled
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED). It is common while a service restarts.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (syscall.ECONNRESET).
	ConnReset
	// DNS indicates the host name could not be resolved.
	DNS
	categorySentinel
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"Canceled",
	"ConnRefused",
	"ConnReset",
	"DNS",
}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || c >= categorySentinel {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Categorize returns the category of the given error, looking through
// wrapped causes as well as err itself.
//
// Cancellation is checked first, then timeouts, so a DNS lookup or a
// connection attempt that timed out is a Timeout rather than DNS or
// ConnRefused.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return DNS
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
