// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package decode

import (
	"bytes"
	"io"
)

// A Blob is an opaque, immutable handle on a binary response payload.
// Its zero value is an empty blob with no type.
type Blob struct {
	data []byte
	typ  string
}

// NewBlob returns a Blob over data with the given media type. The blob
// takes ownership of data.
func NewBlob(data []byte, contentType string) Blob {
	return Blob{data: data, typ: contentType}
}

// Size returns the length of the blob in bytes.
func (b Blob) Size() int {
	return len(b.data)
}

// Type returns the media type the blob was created with, typically the
// response Content-Type.
func (b Blob) Type() string {
	return b.typ
}

// Bytes returns a copy of the blob contents.
func (b Blob) Bytes() []byte {
	return append([]byte(nil), b.data...)
}

// Reader returns a reader over the blob contents.
func (b Blob) Reader() io.Reader {
	return bytes.NewReader(b.data)
}

// Text returns the blob contents as a string.
func (b Blob) Text() string {
	return string(b.data)
}
