// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gogama/lyla/request"
	"github.com/gogama/lyla/timeout"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// HTTP is an Adapter which sends request plans through an HTTPDoer and
// reads and buffers the entire response body. Its zero value is a valid
// configuration, using http.DefaultClient and timeout.DefaultPolicy.
//
// HTTP's HTTPDoer typically has an internal state (cached TCP
// connections) so HTTP adapters should be reused instead of created as
// needed.
//
// Every error returned by Send has the type *url.Error, so the error's
// Timeout method reports whether the request timed out.
type HTTP struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer
	// TimeoutPolicy specifies the timeout set on each request,
	// covering both the round trip and the body read.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
}

// Send sends the request plan p and buffers the response.
//
// Cancelling ctx aborts the request; the returned error then wraps
// ctx's error. A failure to read the complete response body is reported
// the same way as a failure to obtain a response at all.
func (t *HTTP) Send(ctx context.Context, p *request.Plan) (*Result, error) {
	timeoutPolicy := t.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutPolicy.Timeout(p))
	defer cancel()

	resp, err := t.doer().Do(p.ToRequest(ctx))
	if err != nil {
		return nil, urlErrorWrap(p, err)
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, urlErrorWrap(p, err)
	}

	return &Result{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}

// CloseIdleConnections invokes the same method on the adapter's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
func (t *HTTP) CloseIdleConnections() {
	doer := t.doer()
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (t *HTTP) doer() HTTPDoer {
	if t.HTTPDoer == nil {
		return http.DefaultClient
	}

	return t.HTTPDoer
}

func readBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return io.ReadAll(resp.Body)
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
