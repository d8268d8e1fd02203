// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lyla

import (
	"errors"
	"fmt"
)

// An OptionsHook transforms request options in the
// OnBeforeOptionsNormalized and OnBeforeRequest stages.
//
// The hook receives the options produced by the previous hook in the
// chain and the correlation id of the call. It may modify o in place and
// return it, or return different options. Returning an error aborts the
// call with a HOOK_ERROR.
type OptionsHook func(o *Options, id string) (*Options, error)

// A ResponseHook transforms a successful response in the
// OnAfterResponse stage.
//
// The hook receives the response produced by the previous hook in the
// chain and the correlation id of the call. Returning an error aborts
// the call with a HOOK_ERROR.
type ResponseHook func(r *Response, id string) (*Response, error)

// An ErrorHook handles a pipeline error in the OnResponseError stage.
//
// The hook receives the error produced by the previous hook in the chain
// and the correlation id of the call. Its return values decide what
// happens next:
//
// • a non-nil response and nil error recovers: the remaining hooks are
// skipped and the call returns the response instead of failing;
//
// • a nil response and a *Error (possibly e itself, enriched) passes
// that error on to the next hook (the *Error must be returned directly,
// not wrapped);
//
// • a nil response and nil error passes e on unchanged;
//
// • any other error aborts the chain, and the call fails with a
// HOOK_ERROR wrapping it.
type ErrorHook func(e *Error, id string) (*Response, error)

// A CompleteHook observes the outcome of a call after every stage has
// run. It receives the response or error the call is about to return
// and the correlation id, and cannot change the outcome.
//
// Complete hooks run exactly once for every call, whichever stage ended
// it, including calls that end in a HOOK_ERROR and calls recovered by
// an OnResponseError hook. This makes them the place to release any
// per-call state kept since an earlier stage.
type CompleteHook func(r *Response, err error, id string)

// Hooks holds the four ordered hook lists of the request pipeline, and
// the list of complete hooks that observe the outcome of each call.
//
// Hooks in a list run strictly one after another in list order, each
// observing the value returned by the previous one. An empty list
// passes its input through unchanged. When options are merged, for
// example by Instance.Extend, each list of the parent is followed by
// the corresponding list of the child; lists are never replaced.
type Hooks struct {
	// OnBeforeOptionsNormalized runs in the BeforeOptionsNormalized
	// stage.
	OnBeforeOptionsNormalized []OptionsHook
	// OnBeforeRequest runs in the BeforeRequest stage.
	OnBeforeRequest []OptionsHook
	// OnAfterResponse runs in the AfterResponse stage.
	OnAfterResponse []ResponseHook
	// OnResponseError runs in the ResponseError stage.
	OnResponseError []ErrorHook
	// OnComplete runs when the call ends. It is not a pipeline stage.
	OnComplete []CompleteHook
}

// Len returns the number of hooks registered for stage s.
func (h Hooks) Len(s Stage) int {
	switch s {
	case BeforeOptionsNormalized:
		return len(h.OnBeforeOptionsNormalized)
	case BeforeRequest:
		return len(h.OnBeforeRequest)
	case AfterResponse:
		return len(h.OnAfterResponse)
	case ResponseError:
		return len(h.OnResponseError)
	default:
		panic(fmt.Sprintf("lyla: invalid stage %d (there are %d)", int(s), numStages))
	}
}

// Concat returns a new Hooks value whose lists are the lists of h
// followed by the lists of other. Neither h nor other is modified, and
// the result shares no backing arrays with either.
func (h Hooks) Concat(other Hooks) Hooks {
	return Hooks{
		OnBeforeOptionsNormalized: concat(h.OnBeforeOptionsNormalized, other.OnBeforeOptionsNormalized),
		OnBeforeRequest:           concat(h.OnBeforeRequest, other.OnBeforeRequest),
		OnAfterResponse:           concat(h.OnAfterResponse, other.OnAfterResponse),
		OnResponseError:           concat(h.OnResponseError, other.OnResponseError),
		OnComplete:                concat(h.OnComplete, other.OnComplete),
	}
}

func concat[T any](a, b []T) []T {
	if len(a)+len(b) == 0 {
		return nil
	}
	c := make([]T, 0, len(a)+len(b))
	c = append(c, a...)
	return append(c, b...)
}

var (
	errNilOptions  = errors.New("lyla: hook returned nil options")
	errNilResponse = errors.New("lyla: hook returned nil response")
	errNilError    = errors.New("lyla: hook returned nil *Error")
)

func runOptions(chain []OptionsHook, o *Options, id string) (*Options, error) {
	for _, h := range chain {
		next, err := h(o, id)
		if err != nil {
			return o, err
		}
		if next == nil {
			return o, errNilOptions
		}
		o = next
	}
	return o, nil
}

func runResponse(chain []ResponseHook, r *Response, id string) (*Response, error) {
	for _, h := range chain {
		next, err := h(r, id)
		if err != nil {
			return r, err
		}
		if next == nil {
			return r, errNilResponse
		}
		r = next
	}
	return r, nil
}

// runError reduces e through chain. It returns a non-nil response if a
// hook recovered, the final error otherwise, and a non-nil hookErr if a
// hook failed.
//
// An Error returned by a hook inherits the correlation id and options of
// the error it replaces when it leaves them unset. Its kind must be one
// of Kinds().
func runError(chain []ErrorHook, e *Error, id string) (r *Response, final *Error, hookErr error) {
	for _, h := range chain {
		recovered, err := h(e, id)
		if err != nil {
			next, ok := err.(*Error)
			if !ok {
				return nil, e, err
			}
			if next == nil {
				return nil, e, errNilError
			}
			if !next.Kind.valid() {
				return nil, e, fmt.Errorf("lyla: hook returned error of invalid kind %s", next.Kind)
			}
			if next.ID == "" {
				next.ID = id
			}
			if next.Options == nil {
				next.Options = e.Options
			}
			e = next
			continue
		}
		if recovered != nil {
			return recovered, nil, nil
		}
	}
	return nil, e, nil
}

func runComplete(chain []CompleteHook, r *Response, err error, id string) {
	for _, h := range chain {
		h(r, err, id)
	}
}
