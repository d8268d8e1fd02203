// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lyla

import (
	"github.com/gogama/lyla/request"
	"github.com/gogama/lyla/transport"
)

// An Instance is an immutable request template: default options, hook
// lists, and the transport adapter requests are sent through. Its zero
// value is a valid instance with no defaults, no hooks, and the
// transport.Default adapter.
//
// Instances are safe for concurrent use by multiple goroutines. They
// are never modified after construction; Extend and WithAdapter return
// new instances.
type Instance struct {
	options Options
	adapter transport.Adapter
}

// Default is the instance used by the package-level request functions.
// It has no defaults and no hooks, and sends through transport.Default.
var Default = &Instance{}

// New returns an instance whose template is o, sending requests through
// adapter. Either argument may be nil; a nil adapter means
// transport.Default. The instance keeps its own copy of o's header and
// hook lists.
//
// If o.Body is an io.Reader, New reads it to the end once, so that
// every call from the instance sends the same body. See request.Buffer.
func New(o *Options, adapter transport.Adapter) *Instance {
	return &Instance{
		options: template(nil, o),
		adapter: adapter,
	}
}

// Extend returns a new instance whose template is the merge of in's
// template and o (see Merge), sending through the same adapter. Hook
// lists of o run after those of in. The receiver is not modified.
//
// Extend may be chained: each instance in an Extend chain runs its
// ancestors' hooks before its own. Like New, Extend reads an
// io.Reader body of o once.
func (in *Instance) Extend(o *Options) *Instance {
	return &Instance{
		options: template(&in.options, o),
		adapter: in.adapter,
	}
}

func template(base, override *Options) Options {
	o := Merge(base, override)
	o.Body = request.Buffer(o.Body)
	return *o
}

// WithAdapter returns a new instance with the same template as in,
// sending requests through adapter.
func (in *Instance) WithAdapter(adapter transport.Adapter) *Instance {
	return &Instance{
		options: in.options,
		adapter: adapter,
	}
}

// Defaults returns a copy of the instance template.
func (in *Instance) Defaults() *Options {
	return Merge(&in.options, nil)
}

// Adapter returns the transport adapter requests are sent through.
func (in *Instance) Adapter() transport.Adapter {
	if in.adapter == nil {
		return transport.Default
	}
	return in.adapter
}

// CloseIdleConnections invokes the same method on the instance's
// adapter, if it has one.
func (in *Instance) CloseIdleConnections() {
	if ic, ok := in.Adapter().(transport.IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// Extend returns Default.Extend(o).
func Extend(o *Options) *Instance {
	return Default.Extend(o)
}
