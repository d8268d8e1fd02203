// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lyla

// A Stage identifies one of the four hook stages of the request
// pipeline. Register hooks for a stage in the matching Hooks field.
type Stage int

const (
	// BeforeOptionsNormalized identifies the stage that runs right after
	// the instance options and the call options have been merged, and
	// before final defaulting.
	//
	// Hooks at this stage see the URL before it is resolved against the
	// base URL, and may still change every option, including the
	// response type.
	BeforeOptionsNormalized Stage = iota
	// BeforeRequest identifies the stage that runs after final
	// defaulting, immediately before the request plan is built and
	// sent.
	//
	// Hooks at this stage see the resolved URL and upper-case method.
	// Changes they make to the response type or sniff policy are
	// discarded, since both are locked by final defaulting.
	BeforeRequest
	// AfterResponse identifies the stage that runs after a response
	// with a 2XX status code has been decoded successfully.
	//
	// Hooks at this stage may change the response headers, body, or
	// JSON view before the response is returned to the caller.
	AfterResponse
	// ResponseError identifies the stage that runs when the request
	// failed to obtain a response, received a non-2XX status, or could
	// not decode a JSON body.
	//
	// Hooks at this stage may enrich or replace the error, or recover
	// from it by returning a response. ResponseError never runs for
	// errors raised by hooks.
	ResponseError
	// stageSentinel provides the total number of stages typed as a
	// Stage.
	stageSentinel

	// numStages provides the total number of stages as an int.
	numStages = int(stageSentinel)
)

var stageNames = []string{
	"OnBeforeOptionsNormalized",
	"OnBeforeRequest",
	"OnAfterResponse",
	"OnResponseError",
}

// Stages returns a slice containing all hook stages in pipeline order.
// A single request runs either AfterResponse or ResponseError, never
// both.
func Stages() []Stage {
	return []Stage{
		BeforeOptionsNormalized,
		BeforeRequest,
		AfterResponse,
		ResponseError,
	}
}

// Name returns the name of the stage, which is also the name of the
// Hooks field registering hooks for it.
func (s Stage) Name() string {
	return stageNames[int(s)]
}

// String returns the name of the stage.
func (s Stage) String() string {
	return s.Name()
}
