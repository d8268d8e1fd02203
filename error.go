// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lyla

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogama/lyla/transient"
)

// A Kind classifies a pipeline Error. The set of kinds is closed.
type Kind int

const (
	// NoResponse means the transport could not obtain any response,
	// for example because of a network failure, a timeout, or a
	// cancelled context. A request plan that could not be built, for
	// example because of an invalid method, is also a NoResponse error.
	NoResponse Kind = iota + 1
	// HTTPError means a response was obtained and decoded, but its
	// status code is outside the range 200-299.
	HTTPError
	// DecodeError means a response with a 2XX status was obtained, but
	// its body could not be decoded as JSON.
	DecodeError
	// HookError means a hook returned an error, or returned nil without
	// an error.
	HookError
	kindSentinel
)

var kindNames = []string{
	"",
	"NO_RESPONSE",
	"HTTP_ERROR",
	"DECODE_ERROR",
	"HOOK_ERROR",
}

// String returns the name of the kind, for example "HTTP_ERROR".
func (k Kind) String() string {
	if k <= 0 || k >= kindSentinel {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) valid() bool {
	return k > 0 && k < kindSentinel
}

// Kinds returns all error kinds.
func Kinds() []Kind {
	return []Kind{NoResponse, HTTPError, DecodeError, HookError}
}

// An Error is the error returned by a failed call to the pipeline.
//
// Every Error carries its Kind, the correlation id of the call, and the
// options in effect when it failed. Response is set whenever a response
// had been obtained: always for HTTPError and DecodeError, never for
// NoResponse, and for HookError only if the failing hook ran after the
// response was decoded.
type Error struct {
	// Kind classifies the error.
	Kind Kind

	// ID is the correlation id of the call.
	ID string

	// Options are the request options in effect when the call failed.
	Options *Options

	// Response is the decoded response, if one was obtained.
	Response *Response

	// Stage is the stage of the failing hook. It is only meaningful
	// for HookError.
	Stage Stage

	// Err is the underlying cause, if any: the transport error for
	// NoResponse, a *decode.Error for DecodeError, and the hook's error
	// for HookError. It is nil for HTTPError.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("lyla: ")
	b.WriteString(e.Kind.String())
	if e.Options != nil {
		b.WriteString(" ")
		b.WriteString(e.Options.Method)
		b.WriteString(" ")
		b.WriteString(e.Options.URL)
	}
	switch e.Kind {
	case HTTPError:
		if e.Response != nil {
			fmt.Fprintf(&b, ": status %d", e.Response.Status)
		}
	case HookError:
		fmt.Fprintf(&b, ": %s hook", e.Stage)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the status code of the error's response, or zero if
// there is no response.
func (e *Error) Status() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.Status
}

// Transience categorizes the cause of a NoResponse error. It returns
// transient.Not for every other kind.
func (e *Error) Transience() transient.Category {
	if e.Kind != NoResponse {
		return transient.Not
	}
	return transient.Categorize(e.Err)
}

// Timeout reports whether e is a NoResponse error caused by a timeout.
func (e *Error) Timeout() bool {
	return e.Transience() == transient.Timeout
}

// AsError finds the first pipeline Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err's chain contains a pipeline Error of kind k.
func IsKind(err error, k Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == k
}

// Catch lets callers handle only the pipeline errors they anticipate.
//
// If err's chain contains a pipeline Error whose kind is one of kinds,
// Catch returns handler's result for it. If no kinds are given, every
// pipeline Error matches. In all other cases, including a nil err and
// errors that are not pipeline errors, Catch returns err unchanged.
//
//	_, err := inst.Get(ctx, "items", nil)
//	err = lyla.Catch(err, func(e *lyla.Error) error {
//		if e.Status() == 404 {
//			return nil
//		}
//		return e
//	}, lyla.HTTPError)
func Catch(err error, handler func(*Error) error, kinds ...Kind) error {
	e, ok := AsError(err)
	if !ok {
		return err
	}
	if len(kinds) == 0 {
		return handler(e)
	}
	for _, k := range kinds {
		if e.Kind == k {
			return handler(e)
		}
	}
	return err
}
