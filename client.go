// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lyla

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gogama/lyla/decode"
	"github.com/gogama/lyla/request"
	"github.com/gogama/lyla/transport"
	"github.com/google/uuid"
)

var newID = uuid.NewString

var errNilResult = errors.New("lyla: adapter returned nil result and nil error")

// Do runs the request pipeline for the options o, merged over the
// instance template, and returns the decoded response or a pipeline
// error. The returned error, if any, is always a *Error.
//
// The pipeline runs the following stages in order:
//
// 1. The call options are merged over the instance template (see
// Merge), ctx is attached, and a fresh correlation id is minted. The
// hook lists of the merged options are captured; later changes to
// Options.Hooks have no effect on the call.
//
// 2. The OnBeforeOptionsNormalized hooks run. They see the URL before
// it is resolved against BaseURL.
//
// 3. Final defaulting: the URL is resolved against BaseURL, the method
// defaults to GET and is upper-cased, and the response type defaults to
// decode.DefaultType. From here on the response type and sniff policy
// are locked.
//
// 4. The OnBeforeRequest hooks run. Changes they make to ResponseType or
// Sniff are discarded.
//
// 5. The options are frozen into a request.Plan and sent through the
// instance adapter. Failure to build the plan, or to obtain a response,
// is a NoResponse error.
//
// 6. The response body is decoded according to the locked response
// type. A status outside 200-299 is an HTTPError; otherwise a body that
// cannot be decoded is a DecodeError.
//
// 7. The OnAfterResponse hooks run, and the call returns their result.
//
// 8. The OnComplete hooks observe the outcome. They run for every call,
// however it ended.
//
// When stage 5 or 6 fails, the OnResponseError hooks run over the
// error, and may recover it into a response (see ErrorHook). A failing
// hook in any stage ends the call at once with a HookError; HookErrors
// are never passed to the OnResponseError hooks.
//
// Do panics if ctx is nil.
func (in *Instance) Do(ctx context.Context, o *Options) (*Response, error) {
	if ctx == nil {
		panic(nilCtxMsg)
	}

	opts := Merge(&in.options, o)
	opts.ctx = ctx
	c := &call{
		id:      newID(),
		ctx:     ctx,
		hooks:   opts.Hooks,
		adapter: in.Adapter(),
	}

	resp, err := c.run(opts)
	runComplete(c.hooks.OnComplete, resp, err, c.id)
	return resp, err
}

// Get issues a GET to url. The url replaces any URL in o, which may be
// nil.
func (in *Instance) Get(ctx context.Context, url string, o *Options) (*Response, error) {
	return in.Do(ctx, withMethod(o, request.MethodGet, url))
}

// Head issues a HEAD to url. The url replaces any URL in o, which may
// be nil.
func (in *Instance) Head(ctx context.Context, url string, o *Options) (*Response, error) {
	return in.Do(ctx, withMethod(o, request.MethodHead, url))
}

// Post issues a POST to url. The url replaces any URL in o, which may
// be nil. Set o.JSON or o.Body to send a request body.
func (in *Instance) Post(ctx context.Context, url string, o *Options) (*Response, error) {
	return in.Do(ctx, withMethod(o, request.MethodPost, url))
}

// Put issues a PUT to url. The url replaces any URL in o, which may be
// nil.
func (in *Instance) Put(ctx context.Context, url string, o *Options) (*Response, error) {
	return in.Do(ctx, withMethod(o, request.MethodPut, url))
}

// Patch issues a PATCH to url. The url replaces any URL in o, which may
// be nil.
func (in *Instance) Patch(ctx context.Context, url string, o *Options) (*Response, error) {
	return in.Do(ctx, withMethod(o, request.MethodPatch, url))
}

// Delete issues a DELETE to url. The url replaces any URL in o, which
// may be nil.
func (in *Instance) Delete(ctx context.Context, url string, o *Options) (*Response, error) {
	return in.Do(ctx, withMethod(o, request.MethodDelete, url))
}

// Options issues an OPTIONS request to url. The url replaces any URL in
// o, which may be nil.
func (in *Instance) Options(ctx context.Context, url string, o *Options) (*Response, error) {
	return in.Do(ctx, withMethod(o, request.MethodOptions, url))
}

func withMethod(o *Options, method, url string) *Options {
	o2 := new(Options)
	if o != nil {
		*o2 = *o
	}
	o2.Method = method
	o2.URL = url
	return o2
}

// A call is the state of one run of the pipeline which must not be
// changed by hooks.
type call struct {
	id      string
	ctx     context.Context
	hooks   Hooks
	adapter transport.Adapter
}

func (c *call) run(opts *Options) (*Response, error) {
	opts, err := runOptions(c.hooks.OnBeforeOptionsNormalized, opts, c.id)
	if err != nil {
		return nil, c.hookError(BeforeOptionsNormalized, opts, nil, err)
	}

	opts = c.finalize(opts)
	rt, sniff := opts.ResponseType, opts.Sniff
	if !rt.Valid() {
		return c.fail(&Error{
			Kind:    NoResponse,
			ID:      c.id,
			Options: opts,
			Err:     fmt.Errorf("lyla: invalid response type %q", string(rt)),
		})
	}

	opts, err = runOptions(c.hooks.OnBeforeRequest, opts, c.id)
	if err != nil {
		return nil, c.hookError(BeforeRequest, opts, nil, err)
	}
	opts = c.lock(opts, rt, sniff)

	p, err := buildPlan(opts)
	if err != nil {
		return c.fail(&Error{Kind: NoResponse, ID: c.id, Options: opts, Err: err})
	}
	opts.Header = p.Header

	res, err := c.adapter.Send(opts.Context(), p)
	if err == nil && res == nil {
		err = errNilResult
	}
	if err != nil {
		return c.fail(&Error{Kind: NoResponse, ID: c.id, Options: opts, Err: err})
	}

	d, err := decode.Decode(rt, sniff, res.Header, res.Body)
	resp := &Response{
		ID:      c.id,
		Options: opts,
		Status:  res.Status,
		Header:  res.Header,
		Body:    d.Body,
		JSON:    d.JSON,
		HasJSON: d.HasJSON,
		Raw:     res.Body,
	}
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	if !statusOK(resp.Status) {
		return c.fail(&Error{Kind: HTTPError, ID: c.id, Options: opts, Response: resp})
	}
	if err != nil {
		return c.fail(&Error{Kind: DecodeError, ID: c.id, Options: opts, Response: resp, Err: err})
	}

	resp, err = runResponse(c.hooks.OnAfterResponse, resp, c.id)
	if err != nil {
		return nil, c.hookError(AfterResponse, opts, resp, err)
	}
	return resp, nil
}

// finalize returns a copy of opts with the URL resolved and the method
// and response type defaulted.
func (c *call) finalize(opts *Options) *Options {
	o := *opts
	o.URL = request.JoinURL(o.BaseURL, o.URL)
	o.Method = request.NormalizeMethod(o.Method)
	if o.ResponseType == "" {
		o.ResponseType = decode.DefaultType
	}
	if o.ctx == nil {
		o.ctx = c.ctx
	}
	return &o
}

// lock returns a copy of opts carrying the locked response type and
// sniff policy.
func (c *call) lock(opts *Options, rt decode.Type, sniff decode.Sniff) *Options {
	o := *opts
	o.ResponseType = rt
	o.Sniff = sniff
	o.Method = request.NormalizeMethod(o.Method)
	if o.ctx == nil {
		o.ctx = c.ctx
	}
	return &o
}

func (c *call) hookError(s Stage, opts *Options, resp *Response, err error) *Error {
	return &Error{
		Kind:     HookError,
		ID:       c.id,
		Options:  opts,
		Response: resp,
		Stage:    s,
		Err:      err,
	}
}

// fail runs the OnResponseError hooks over e.
func (c *call) fail(e *Error) (*Response, error) {
	r, final, err := runError(c.hooks.OnResponseError, e, c.id)
	if err != nil {
		return nil, c.hookError(ResponseError, final.Options, final.Response, err)
	}
	if r != nil {
		if r.ID == "" {
			r.ID = c.id
		}
		if r.Options == nil {
			r.Options = final.Options
		}
		return r, nil
	}
	return nil, final
}

func buildPlan(o *Options) (*request.Plan, error) {
	var body []byte
	var err error
	header := o.Header.Clone()
	if o.JSON != nil {
		body, err = request.JSONBytes(o.JSON)
		if err != nil {
			return nil, err
		}
		if !hasHeader(header, "Content-Type") {
			if header == nil {
				header = http.Header{}
			}
			header.Set("Content-Type", "application/json")
		}
	} else {
		body, err = request.BodyBytes(o.Body)
		if err != nil {
			return nil, err
		}
	}
	return request.NewPlan(o.Method, o.URL, header, body)
}

// hasHeader reports whether h has a field named key, matching names
// case-insensitively even when hooks added non-canonical keys.
func hasHeader(h http.Header, key string) bool {
	for k := range h {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
