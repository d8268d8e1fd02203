// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const badBodyTypeMsg = "lyla/request: invalid type (for body use nil, " +
	"string, []byte, io.Reader or io.ReadCloser)"

// BodyBytes converts a generic body parameter to a byte slice for use
// as a request plan body.
//
// The body parameter may be nil, or it may be a string, []byte,
// io.Reader, or io.ReadCloser. The conversion logic is:
//
// • If body is nil, a nil byte slice and no error is returned.
//
// • If body is a []byte, body itself and no error is returned.
//
// • If body is a string, the built-in conversion from string to byte
// slice, and no error, is returned.
//
// • If body is an io.Reader or io.ReadCloser, the result of reading
// the whole contents of the reader (and closing it if it implements
// Closer) is returned. If reading from the reader (and closing it if
// applicable) causes an error, the return value is a nil byte slice
// and the error.
//
// • If body is any other type than those listed above, a nil byte slice
// and an error is returned.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, err
		}
		err = x.Close()
		if err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x))
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
}

// Buffer returns body with an io.Reader replaced by its contents, so
// that the body can be sent any number of times. Other values are
// returned unchanged. If the reader fails, Buffer returns a reader
// which fails with the same error on every read, so each send reports
// it.
func Buffer(body interface{}) interface{} {
	if _, ok := body.(io.Reader); !ok {
		return body
	}
	b, err := BodyBytes(body)
	if err != nil {
		return errReader{err}
	}
	return b
}

type errReader struct {
	err error
}

func (r errReader) Read(_ []byte) (int, error) {
	return 0, r.err
}

// JSONBytes marshals v for use as a JSON request plan body.
func JSONBytes(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("lyla/request: json body: %w", err)
	}
	return b, nil
}

// JoinURL resolves u against base by concatenation, ensuring exactly
// one slash separates the two halves whether or not base ends with a
// slash or u starts with one.
//
// If base is empty, or u is absolute (it carries a scheme such as
// "https://"), u is returned unchanged. If u is empty, base is returned.
func JoinURL(base, u string) string {
	if base == "" || isAbsolute(u) {
		return u
	}
	if u == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(u, "/")
}

func isAbsolute(u string) bool {
	i := strings.Index(u, "://")
	if i <= 0 {
		return false
	}
	for _, r := range u[:i] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}
