// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lyla

import (
	"context"
	"net/http"
	"net/textproto"

	"github.com/gogama/lyla/decode"
)

const (
	nilCtxMsg = "lyla: nil context"
)

// Options is the configuration of a request, and of the Instance it is
// issued from.
//
// The same type serves as an instance template and as per-call options.
// Fields left at their zero value are unset, and inherit the value of
// the options they are merged into (see Merge).
type Options struct {
	// URL is the request URL. A relative URL is resolved against
	// BaseURL during final defaulting.
	URL string

	// BaseURL is joined in front of a relative URL with exactly one
	// slash between the two, regardless of trailing or leading slashes.
	BaseURL string

	// Method is the HTTP method: GET, POST, PUT, PATCH, DELETE, HEAD, or
	// OPTIONS. It is case-insensitive, and an empty method means GET.
	Method string

	// Header contains the request header fields. Keys are
	// canonicalised on merge, so header names are case-insensitive.
	Header http.Header

	// Body is sent verbatim as the request body when JSON is nil. It may
	// be nil, a string, a []byte, an io.Reader or an io.ReadCloser.
	Body interface{}

	// JSON, if non-nil, is marshalled with encoding/json and sent as the
	// request body, replacing Body. A Content-Type of application/json
	// is added unless the header already has a Content-Type.
	JSON interface{}

	// ResponseType declares how the response body is decoded. The
	// empty value means decode.DefaultType (JSON).
	ResponseType decode.Type

	// Sniff decides whether a JSON content type fills the response JSON
	// view for response types other than JSON.
	Sniff decode.Sniff

	// Hooks holds the hook lists of the request pipeline.
	Hooks Hooks

	// ctx is the context of an in-flight call. It should only be
	// modified by copying the whole Options using WithContext.
	ctx context.Context
}

// Context returns the context of the call the options belong to. Hooks
// should use it for any blocking work they do.
//
// The returned context is always non-nil; it defaults to the background
// context, also when o is nil.
func (o *Options) Context() context.Context {
	if o != nil && o.ctx != nil {
		return o.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of o with its context changed to
// ctx, which must be non-nil.
//
// An OnBeforeRequest hook may use WithContext to change the context the
// transport call runs under, for example to add a deadline.
func (o *Options) WithContext(ctx context.Context) *Options {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	o2 := new(Options)
	*o2 = *o
	o2.ctx = ctx
	return o2
}

// Merge returns new options combining base and override. Either may be
// nil. Neither is modified.
//
// Scalar fields take the override's value when it is set, and base's
// value otherwise. Header is the key-wise union of both headers, with
// the override's values winning for any key present in both; keys are
// canonicalised, so "content-type" and "Content-Type" are the same key.
// Each hook list is base's list followed by the override's list.
//
// Merge performs no validation: malformed values pass through
// unchanged. The result never shares a header map or a hook list with
// its inputs, but the Body and JSON values themselves are not copied.
func Merge(base, override *Options) *Options {
	var o Options
	if base != nil {
		o = *base
	}
	if override == nil {
		override = &Options{}
	}

	if override.URL != "" {
		o.URL = override.URL
	}
	if override.BaseURL != "" {
		o.BaseURL = override.BaseURL
	}
	if override.Method != "" {
		o.Method = override.Method
	}
	if override.Body != nil {
		o.Body = override.Body
	}
	if override.JSON != nil {
		o.JSON = override.JSON
	}
	if override.ResponseType != "" {
		o.ResponseType = override.ResponseType
	}
	if override.Sniff != decode.SniffDefault {
		o.Sniff = override.Sniff
	}
	if override.ctx != nil {
		o.ctx = override.ctx
	}

	o.Header = mergeHeader(o.Header, override.Header)
	o.Hooks = o.Hooks.Concat(override.Hooks)

	return &o
}

func mergeHeader(base, override http.Header) http.Header {
	h := make(http.Header, len(base)+len(override))
	for _, src := range []http.Header{base, override} {
		for k, vs := range src {
			h[textproto.CanonicalMIMEHeaderKey(k)] = append([]string(nil), vs...)
		}
	}
	return h
}
