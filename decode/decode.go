// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package decode

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// A Result holds the decoded views of a response payload.
type Result struct {
	// Body is the payload in the requested type's view: a string for
	// TypeText and TypeJSON, a Blob for TypeBlob, and a []byte for
	// TypeArrayBuffer.
	Body interface{}

	// JSON is the parsed JSON value, or nil if the JSON view is unset.
	// A payload consisting of the JSON literal null also produces nil;
	// use HasJSON to tell the two apart.
	JSON interface{}

	// HasJSON reports whether the JSON view was filled.
	HasJSON bool
}

// An Error is returned by Decode when a TypeJSON payload fails to parse.
type Error struct {
	// Raw is the payload text that failed to parse.
	Raw string
	// Err is the underlying parse error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("lyla/decode: invalid JSON body: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Decode converts raw into the views for response type t.
//
// For TypeJSON, an empty payload leaves the JSON view unset and is not an
// error, since bodiless responses such as 204 No Content are common. A
// non-empty payload that does not parse yields a Result whose Body still
// holds the raw text, together with an *Error.
//
// When the sniff policy applies to t and header declares a JSON content
// type, the JSON view is also filled for the other types; a sniffed
// payload that fails to parse simply leaves the view unset.
//
// Decode never fails for TypeText, TypeBlob or TypeArrayBuffer. It panics
// if t is not valid, so callers must check Type.Valid first.
func Decode(t Type, sniff Sniff, header http.Header, raw []byte) (Result, error) {
	var r Result
	switch t {
	case TypeText:
		r.Body = string(raw)
	case TypeJSON:
		s := string(raw)
		r.Body = s
		if len(strings.TrimSpace(s)) == 0 {
			return r, nil
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return r, &Error{Raw: s, Err: err}
		}
		r.JSON, r.HasJSON = v, true
		return r, nil
	case TypeBlob:
		r.Body = NewBlob(clone(raw), header.Get("Content-Type"))
	case TypeArrayBuffer:
		r.Body = clone(raw)
	default:
		panic(fmt.Sprintf("lyla/decode: invalid response type %q", string(t)))
	}

	if sniff.applies(t) && IsJSONContentType(header.Get("Content-Type")) {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err == nil {
			r.JSON, r.HasJSON = v, true
		}
	}

	return r, nil
}

// clone copies raw so the blob and arraybuffer views never alias the
// payload.
func clone(raw []byte) []byte {
	return append([]byte{}, raw...)
}

// IsJSONContentType reports whether the media type in a Content-Type
// header value is application/json or a structured "+json" type such
// as application/problem+json.
func IsJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
