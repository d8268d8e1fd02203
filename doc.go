// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package lyla provides an HTTP client that runs every request through a
configurable pipeline of hooks, decodes the response according to a
declared response type, and reports failures with a small, closed set of
error kinds.

Create an Instance to hold default options, then issue requests from it.

	api := lyla.New(&lyla.Options{
		BaseURL: "https://api.example.com/v1/",
		Header:  http.Header{"Accept": {"application/json"}},
	}, nil)
	resp, err := api.Get(ctx, "users/42", nil)
	...
	resp, err := api.Post(ctx, "users", &lyla.Options{
		JSON: map[string]string{"name": "Gopher"},
	})

Instances are immutable. Extend derives a child instance whose options
are merged over the parent's, and whose hook lists run after the
parent's:

	admin := api.Extend(&lyla.Options{
		Header: http.Header{"X-Role": {"admin"}},
	})

Every call is given a fresh correlation id, which is passed to each hook
and recorded on the Response or Error. Hooks are installed in the four
lists of a Hooks value:

	audit := lyla.Hooks{
		OnBeforeRequest: []lyla.OptionsHook{
			func(o *lyla.Options, id string) (*lyla.Options, error) {
				log.Printf("[%s] %s %s", id, o.Method, o.URL)
				return o, nil
			},
		},
	}
	api = api.Extend(&lyla.Options{Hooks: audit})

The response body is decoded according to Options.ResponseType (see
package decode). JSON is the default:

	var user User
	err := resp.Unmarshal(&user)
	name := resp.Query("name").String()

Failed calls return a *Error whose Kind tells what went wrong:
NoResponse, HTTPError, DecodeError, or HookError. Use Catch to handle
only the kinds you expect, and let the rest propagate:

	err = lyla.Catch(err, func(e *lyla.Error) error {
		if e.Status() == http.StatusNotFound {
			return nil
		}
		return e
	}, lyla.HTTPError)

To control how requests are sent, give the instance a transport adapter.
The HTTP adapter in package transport wraps any HTTPDoer, such as a Go
standard http.Client, and applies a timeout policy from package timeout:

	api := lyla.New(opts, &transport.HTTP{
		HTTPDoer:      &http.Client{...},
		TimeoutPolicy: timeout.Fixed(10 * time.Second),
	})

Package lyla provides basic interfaces for the pipeline entry point and
each method shortcut (Requester, Getter, Header, Poster, Putter,
Patcher, Deleter, and Optioner); a combined interface (Executor); and
utility functions for working with a Requester (Inflate, Get, Head,
Post, Put, Patch, Delete, and OptionsRequest).
*/
package lyla
