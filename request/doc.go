// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request provides the wire-level request plan sent by a transport
adapter, together with the helpers the lyla pipeline uses to build one:
URL joining against a base URL, body conversion, and JSON body encoding.

Most programs never build a Plan directly. The lyla pipeline builds one
from the final request options after the OnBeforeRequest hooks have run,
and hands it to the transport.

	p, err := request.NewPlan("post", request.JoinURL("https://example.com/api/", "/items"), nil, body)
	...
	req := p.ToRequest(ctx)
*/
package request
