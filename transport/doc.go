// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport defines the Adapter capability through which the lyla
pipeline reaches the network, and provides HTTP, an adapter built on the
GoLang standard HTTP client.

An adapter receives the final request plan and either returns the raw
response (status, headers and body) or fails. It never decodes bodies or
classifies status codes; both are the pipeline's job.

To control how requests are sent, wrap a custom HTTPDoer:

	adapter := &transport.HTTP{
		HTTPDoer:      &http.Client{Transport: myRoundTripper},
		TimeoutPolicy: timeout.Fixed(10 * time.Second),
	}

Tests and in-process fakes can use AdapterFunc:

	adapter := transport.AdapterFunc(func(ctx context.Context, p *request.Plan) (*transport.Result, error) {
		return &transport.Result{Status: 200, Body: []byte("hello")}, nil
	})
*/
package transport
