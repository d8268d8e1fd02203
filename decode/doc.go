// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package decode converts a raw response payload into the body view a
caller asked for.

Four response types are supported. TypeText and TypeJSON surface the body
as a string; TypeJSON additionally parses it, and a parse failure is the
only way Decode reports an error. TypeBlob wraps the payload in an opaque
Blob, and TypeArrayBuffer surfaces the raw bytes.

Independently of the requested type, a server that declares a JSON
content type may have its payload parsed opportunistically into the JSON
view. Which response types take part is controlled by a Sniff policy;
the default sniffs only text responses.
*/
package decode
