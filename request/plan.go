// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// HTTP methods accepted in a request plan.
const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodHead    = "HEAD"
	MethodOptions = "OPTIONS"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

// A Plan is the frozen wire form of a request: the method, URL, header
// and body a transport adapter sends once every hook that may rewrite
// the request has run.
//
// Unlike a net/http Request, a Plan's body is fully buffered, so the
// same Plan may be turned into any number of http.Request values.
type Plan struct {
	// Method is one of the Method* constants. It is never empty.
	Method string

	// URL is the parsed request URL.
	URL *urlpkg.URL

	// Header contains the request header fields. It is never nil.
	Header http.Header

	// Body is the pre-buffered request body. A nil or empty body
	// means no body is sent.
	Body []byte

	// Host optionally overrides the Host header to send. NewPlan sets
	// it to URL.Host.
	Host string
}

// NewPlan returns a new Plan for the given method, URL, header, and
// body.
//
// The method is upper-cased, and an empty method means GET. NewPlan
// returns an error if the method is not one of the Method* constants,
// if the URL cannot be parsed, or if the header contains a field name
// or value that may not be sent on the wire. The header is cloned, so
// later changes to header do not affect the plan.
func NewPlan(method, url string, header http.Header, body []byte) (*Plan, error) {
	method = NormalizeMethod(method)
	if !ValidMethod(method) {
		return nil, fmt.Errorf("lyla/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	for name, values := range header {
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, fmt.Errorf("lyla/request: invalid header field name %q", name)
		}
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return nil, fmt.Errorf("lyla/request: invalid header field value for %q", name)
			}
		}
	}
	h := header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	return &Plan{
		Method: method,
		URL:    u,
		Header: h,
		Body:   body,
		Host:   u.Host,
	}, nil
}

// ToRequest creates an HTTP request corresponding to the given request
// plan. The context of the new request is set to ctx, which may not be
// nil.
func (p *Plan) ToRequest(ctx context.Context) *http.Request {
	r := template.WithContext(ctx)
	r.Method = p.Method
	r.URL = p.URL
	r.Header = p.Header
	if len(p.Body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(p.Body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(p.Body)), nil
		}
		r.ContentLength = int64(len(p.Body))
	}
	r.Host = p.Host
	return r
}

// String returns the method and URL of the plan, for example
// "GET https://example.com/api".
func (p *Plan) String() string {
	return p.Method + " " + p.URL.String()
}

// NormalizeMethod upper-cases method, mapping the empty string to GET.
func NormalizeMethod(method string) string {
	if method == "" {
		return MethodGet
	}
	return strings.ToUpper(method)
}

// ValidMethod reports whether method is one of the Method* constants.
// The comparison is case-sensitive; use NormalizeMethod first.
func ValidMethod(method string) bool {
	switch method {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions:
		return true
	default:
		return false
	}
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
