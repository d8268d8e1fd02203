// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lyla

import (
	"context"

	"github.com/gogama/lyla/request"
	"github.com/gogama/lyla/transport"
)

// Requester is the interface that wraps the basic Do method.
//
// Do runs the request pipeline for the given options and returns the
// decoded response (and error, if any). Instance implements the
// Requester interface, and any other Requester implementation must
// behave substantially the same as Instance.Do.
//
// Any Requester can be converted into an Executor via the Inflate
// function.
type Requester interface {
	Do(ctx context.Context, o *Options) (*Response, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Any Requester can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(ctx context.Context, url string, o *Options) (*Response, error)
}

// Header is the interface that wraps the basic Head method.
//
// Any Requester can be used to emulate a Header via the Head function.
type Header interface {
	Head(ctx context.Context, url string, o *Options) (*Response, error)
}

// Poster is the interface that wraps the basic Post method.
//
// Any Requester can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(ctx context.Context, url string, o *Options) (*Response, error)
}

// Putter is the interface that wraps the basic Put method.
//
// Any Requester can be used to emulate a Putter via the Put function.
type Putter interface {
	Put(ctx context.Context, url string, o *Options) (*Response, error)
}

// Patcher is the interface that wraps the basic Patch method.
//
// Any Requester can be used to emulate a Patcher via the Patch
// function.
type Patcher interface {
	Patch(ctx context.Context, url string, o *Options) (*Response, error)
}

// Deleter is the interface that wraps the basic Delete method.
//
// Any Requester can be used to emulate a Deleter via the Delete
// function.
type Deleter interface {
	Delete(ctx context.Context, url string, o *Options) (*Response, error)
}

// Optioner is the interface that wraps the basic Options method.
//
// Any Requester can be used to emulate an Optioner via the
// OptionsRequest function.
type Optioner interface {
	Options(ctx context.Context, url string, o *Options) (*Response, error)
}

// Executor is the interface that groups the Do method, the per-method
// shortcuts, and CloseIdleConnections.
//
// Any Requester can be converted into an Executor via the Inflate
// function.
type Executor interface {
	Requester
	Getter
	Header
	Poster
	Putter
	Patcher
	Deleter
	Optioner
	transport.IdleCloser
}

// Get uses the specified Requester to issue a GET to the specified URL,
// using the same policies as r.Do.
func Get(r Requester, ctx context.Context, url string, o *Options) (*Response, error) {
	return r.Do(ctx, withMethod(o, request.MethodGet, url))
}

// Head uses the specified Requester to issue a HEAD to the specified
// URL, using the same policies as r.Do.
func Head(r Requester, ctx context.Context, url string, o *Options) (*Response, error) {
	return r.Do(ctx, withMethod(o, request.MethodHead, url))
}

// Post uses the specified Requester to issue a POST to the specified
// URL, using the same policies as r.Do.
func Post(r Requester, ctx context.Context, url string, o *Options) (*Response, error) {
	return r.Do(ctx, withMethod(o, request.MethodPost, url))
}

// Put uses the specified Requester to issue a PUT to the specified URL,
// using the same policies as r.Do.
func Put(r Requester, ctx context.Context, url string, o *Options) (*Response, error) {
	return r.Do(ctx, withMethod(o, request.MethodPut, url))
}

// Patch uses the specified Requester to issue a PATCH to the specified
// URL, using the same policies as r.Do.
func Patch(r Requester, ctx context.Context, url string, o *Options) (*Response, error) {
	return r.Do(ctx, withMethod(o, request.MethodPatch, url))
}

// Delete uses the specified Requester to issue a DELETE to the
// specified URL, using the same policies as r.Do.
func Delete(r Requester, ctx context.Context, url string, o *Options) (*Response, error) {
	return r.Do(ctx, withMethod(o, request.MethodDelete, url))
}

// OptionsRequest uses the specified Requester to issue an OPTIONS
// request to the specified URL, using the same policies as r.Do.
func OptionsRequest(r Requester, ctx context.Context, url string, o *Options) (*Response, error) {
	return r.Do(ctx, withMethod(o, request.MethodOptions, url))
}

// Inflate converts any Requester into an Executor. It panics if r is
// nil.
//
// If the Requester is already an Executor, it is returned as is. If the
// Requester also implements transport.IdleCloser, the returned
// Executor's CloseIdleConnections method delegates to it; otherwise
// CloseIdleConnections does nothing.
func Inflate(r Requester) Executor {
	if r == nil {
		panic("lyla: nil requester")
	}
	if x, ok := r.(Executor); ok {
		return x
	}
	return inflated{r}
}

type inflated struct {
	Requester
}

func (i inflated) Get(ctx context.Context, url string, o *Options) (*Response, error) {
	return Get(i.Requester, ctx, url, o)
}

func (i inflated) Head(ctx context.Context, url string, o *Options) (*Response, error) {
	return Head(i.Requester, ctx, url, o)
}

func (i inflated) Post(ctx context.Context, url string, o *Options) (*Response, error) {
	return Post(i.Requester, ctx, url, o)
}

func (i inflated) Put(ctx context.Context, url string, o *Options) (*Response, error) {
	return Put(i.Requester, ctx, url, o)
}

func (i inflated) Patch(ctx context.Context, url string, o *Options) (*Response, error) {
	return Patch(i.Requester, ctx, url, o)
}

func (i inflated) Delete(ctx context.Context, url string, o *Options) (*Response, error) {
	return Delete(i.Requester, ctx, url, o)
}

func (i inflated) Options(ctx context.Context, url string, o *Options) (*Response, error) {
	return OptionsRequest(i.Requester, ctx, url, o)
}

func (i inflated) CloseIdleConnections() {
	if ic, ok := i.Requester.(transport.IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}
