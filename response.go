// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lyla

import (
	"encoding/json"
	"net/http"

	"github.com/gogama/lyla/decode"
	"github.com/tidwall/gjson"
)

// A Response is the decoded result of a call.
//
// OnAfterResponse hooks may change Header, Body and JSON before the
// response reaches the caller. Raw always holds the payload exactly as
// the transport returned it.
type Response struct {
	// ID is the correlation id of the call.
	ID string

	// Options are the final request options of the call.
	Options *Options

	// Status is the HTTP status code.
	Status int

	// Header contains the response header fields. It is never nil for
	// a response produced by the pipeline.
	Header http.Header

	// Body is the response body in the view of the locked response
	// type: a string for text and JSON, a decode.Blob for blob, and a
	// []byte for arraybuffer.
	Body interface{}

	// JSON is the parsed JSON view of the body. It is nil when unset:
	// for JSON responses with an empty body, and for other response
	// types unless the body was sniffed (see decode.Sniff). A JSON
	// literal null also parses to nil; use HasJSON to tell the two
	// apart.
	JSON interface{}

	// HasJSON reports whether the JSON view was filled.
	HasJSON bool

	// Raw is the undecoded response payload.
	Raw []byte
}

// OK reports whether the status code is in the range 200-299.
func (r *Response) OK() bool {
	return statusOK(r.Status)
}

// Text returns the body as a string, whatever its view.
func (r *Response) Text() string {
	switch x := r.Body.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case decode.Blob:
		return x.Text()
	default:
		return string(r.Raw)
	}
}

// Unmarshal parses the raw payload as JSON into v.
func (r *Response) Unmarshal(v interface{}) error {
	return json.Unmarshal(r.Raw, v)
}

// Query looks up a value in the raw JSON payload using a gjson path,
// for example "items.0.name". The result's Exists method reports whether
// the path matched.
func (r *Response) Query(path string) gjson.Result {
	return gjson.GetBytes(r.Raw, path)
}

func statusOK(status int) bool {
	return status >= 200 && status <= 299
}
