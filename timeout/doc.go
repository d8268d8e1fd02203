// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout provides flexible timeout policies which may be set
// on the HTTP transport adapter. A request whose timeout expires fails
// without a response and surfaces as a NO_RESPONSE error.
package timeout
