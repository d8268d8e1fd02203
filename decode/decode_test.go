// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package decode

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	textHeader = http.Header{"Content-Type": {"text/plain; charset=utf-8"}}
	jsonHeader = http.Header{"Content-Type": {"application/json; charset=utf-8"}}
)

func TestDecode(t *testing.T) {
	testCases := []struct {
		name    string
		t       Type
		sniff   Sniff
		header  http.Header
		raw     string
		asserts func(*testing.T, Result, error)
	}{
		{
			name:   "text",
			t:      TypeText,
			header: textHeader,
			raw:    "hello",
			asserts: func(t *testing.T, r Result, err error) {
				assert.NoError(t, err)
				assert.Equal(t, "hello", r.Body)
				assert.False(t, r.HasJSON)
				assert.Nil(t, r.JSON)
			},
		},
		{
			name:   "text with JSON content type is sniffed",
			t:      TypeText,
			header: jsonHeader,
			raw:    `{"a":1}`,
			asserts: func(t *testing.T, r Result, err error) {
				assert.NoError(t, err)
				assert.Equal(t, `{"a":1}`, r.Body)
				assert.True(t, r.HasJSON)
				assert.Equal(t, map[string]interface{}{"a": float64(1)}, r.JSON)
			},
		},
		{
			name:   "text with JSON content type and bad payload",
			t:      TypeText,
			header: jsonHeader,
			raw:    `{"a":`,
			asserts: func(t *testing.T, r Result, err error) {
				assert.NoError(t, err)
				assert.Equal(t, `{"a":`, r.Body)
				assert.False(t, r.HasJSON)
			},
		},
		{
			name:   "explicit text sniffing",
			t:      TypeText,
			sniff:  SniffText,
			header: jsonHeader,
			raw:    `[1]`,
			asserts: func(t *testing.T, r Result, err error) {
				assert.NoError(t, err)
				assert.True(t, r.HasJSON)
				assert.Equal(t, []interface{}{float64(1)}, r.JSON)
			},
		},
		{
			name:   "text sniffing disabled",
			t:      TypeText,
			sniff:  SniffNever,
			header: jsonHeader,
			raw:    `{"a":1}`,
			asserts: func(t *testing.T, r Result, err error) {
				assert.NoError(t, err)
				assert.Equal(t, `{"a":1}`, r.Body)
				assert.False(t, r.HasJSON)
			},
		},
		{
			name:   "json",
			t:      TypeJSON,
			header: textHeader,
			raw:    `{"jsonKey":"jsonValue","n":[1,2]}`,
			asserts: func(t *testing.T, r Result, err error) {
				assert.NoError(t, err)
				assert.Equal(t, `{"jsonKey":"jsonValue","n":[1,2]}`, r.Body)
				assert.True(t, r.HasJSON)
				assert.Equal(t, map[string]interface{}{
					"jsonKey": "jsonValue",
					"n":       []interface{}{float64(1), float64(2)},
				}, r.JSON)
			},
		},
		{
			name: "json null",
			t:    TypeJSON,
			raw:  `null`,
			asserts: func(t *testing.T, r Result, err error) {
				assert.NoError(t, err)
				assert.True(t, r.HasJSON)
				assert.Nil(t, r.JSON)
			},
		},
		{
			name: "json empty",
			t:    TypeJSON,
			raw:  " \n",
			asserts: func(t *testing.T, r Result, err error) {
				assert.NoError(t, err)
				assert.Equal(t, " \n", r.Body)
				assert.False(t, r.HasJSON)
			},
		},
		{
			name:   "json parse failure",
			t:      TypeJSON,
			header: textHeader,
			raw:    "hello",
			asserts: func(t *testing.T, r Result, err error) {
				assert.Equal(t, "hello", r.Body)
				assert.False(t, r.HasJSON)
				var decodeErr *Error
				require.True(t, errors.As(err, &decodeErr))
				assert.Equal(t, "hello", decodeErr.Raw)
				var syntaxErr *json.SyntaxError
				assert.True(t, errors.As(err, &syntaxErr))
				assert.Contains(t, err.Error(), "lyla/decode: invalid JSON body")
			},
		},
		{
			name:   "blob",
			t:      TypeBlob,
			header: jsonHeader,
			raw:    `{"a":1}`,
			asserts: func(t *testing.T, r Result, err error) {
				assert.NoError(t, err)
				b, ok := r.Body.(Blob)
				require.True(t, ok)
				assert.Equal(t, 7, b.Size())
				assert.Equal(t, "application/json; charset=utf-8", b.Type())
				assert.Equal(t, `{"a":1}`, b.Text())
				assert.False(t, r.HasJSON)
			},
		},
		{
			name:   "blob with sniff all",
			t:      TypeBlob,
			sniff:  SniffAll,
			header: jsonHeader,
			raw:    `[true]`,
			asserts: func(t *testing.T, r Result, err error) {
				assert.NoError(t, err)
				assert.True(t, r.HasJSON)
				assert.Equal(t, []interface{}{true}, r.JSON)
			},
		},
		{
			name:   "arraybuffer",
			t:      TypeArrayBuffer,
			header: textHeader,
			raw:    "\x00\xffhello",
			asserts: func(t *testing.T, r Result, err error) {
				assert.NoError(t, err)
				assert.Equal(t, []byte("\x00\xffhello"), r.Body)
				assert.False(t, r.HasJSON)
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			r, err := Decode(testCase.t, testCase.sniff, testCase.header, []byte(testCase.raw))
			testCase.asserts(t, r, err)
		})
	}

	t.Run("views do not alias raw", func(t *testing.T) {
		for _, typ := range []Type{TypeBlob, TypeArrayBuffer} {
			raw := []byte("abc")
			r, err := Decode(typ, SniffDefault, nil, raw)
			require.NoError(t, err)
			raw[0] = 'z'
			switch x := r.Body.(type) {
			case Blob:
				assert.Equal(t, "abc", x.Text())
			case []byte:
				assert.Equal(t, []byte("abc"), x)
				x[1] = 'y'
				assert.Equal(t, []byte("zbc"), raw)
			default:
				t.Fatalf("unexpected body %T", r.Body)
			}
		}
	})
	t.Run("invalid type panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = Decode("xml", SniffText, nil, nil) })
	})
}

func TestIsJSONContentType(t *testing.T) {
	assert.True(t, IsJSONContentType("application/json"))
	assert.True(t, IsJSONContentType("Application/JSON; charset=utf-8"))
	assert.True(t, IsJSONContentType("application/problem+json"))
	assert.False(t, IsJSONContentType(""))
	assert.False(t, IsJSONContentType("text/plain"))
	assert.False(t, IsJSONContentType("application/jsonx"))
	assert.False(t, IsJSONContentType(";;;"))
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"text", "JSON", "blob", "ArrayBuffer"} {
		typ, err := ParseType(s)
		assert.NoError(t, err)
		assert.True(t, typ.Valid())
	}
	typ, err := ParseType("")
	assert.NoError(t, err)
	assert.Equal(t, TypeJSON, typ)
	_, err = ParseType("xml")
	assert.EqualError(t, err, `lyla/decode: unknown response type "xml"`)
	assert.False(t, Type("").Valid())
}

func TestParseSniff(t *testing.T) {
	s, err := ParseSniff("")
	assert.NoError(t, err)
	assert.Equal(t, SniffDefault, s)
	s, err = ParseSniff("text")
	assert.NoError(t, err)
	assert.Equal(t, SniffText, s)
	s, err = ParseSniff("ALL")
	assert.NoError(t, err)
	assert.Equal(t, SniffAll, s)
	assert.Equal(t, "never", SniffNever.String())
	assert.Equal(t, "Sniff(9)", Sniff(9).String())
	_, err = ParseSniff("sometimes")
	assert.Error(t, err)
}

func TestBlob(t *testing.T) {
	data := []byte("abc")
	b := NewBlob(data, "application/octet-stream")
	c := b.Bytes()
	c[0] = 'z'
	assert.Equal(t, "abc", b.Text())
	rb, err := io.ReadAll(b.Reader())
	assert.NoError(t, err)
	assert.Equal(t, "abc", string(rb))
	var zero Blob
	assert.Equal(t, 0, zero.Size())
	assert.Equal(t, "", zero.Type())
}
