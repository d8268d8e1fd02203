// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package lyla

import (
	"testing"

	"github.com/gogama/lyla/decode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		for _, status := range []int{200, 201, 204, 299} {
			assert.True(t, (&Response{Status: status}).OK(), status)
		}
		for _, status := range []int{0, 199, 300, 404, 500} {
			assert.False(t, (&Response{Status: status}).OK(), status)
		}
	})
	t.Run("Text", func(t *testing.T) {
		raw := []byte("raw")
		assert.Equal(t, "s", (&Response{Body: "s", Raw: raw}).Text())
		assert.Equal(t, "b", (&Response{Body: []byte("b"), Raw: raw}).Text())
		assert.Equal(t, "blob", (&Response{Body: decode.NewBlob([]byte("blob"), ""), Raw: raw}).Text())
		assert.Equal(t, "raw", (&Response{Raw: raw}).Text())
	})
	t.Run("Unmarshal", func(t *testing.T) {
		var v struct {
			Name string `json:"name"`
		}
		r := &Response{Raw: []byte(`{"name":"gopher"}`)}
		require.NoError(t, r.Unmarshal(&v))
		assert.Equal(t, "gopher", v.Name)
		assert.Error(t, (&Response{Raw: []byte("{")}).Unmarshal(&v))
	})
	t.Run("Query", func(t *testing.T) {
		r := &Response{Raw: []byte(`{"items":[{"id":1},{"id":2}]}`)}
		assert.Equal(t, int64(2), r.Query("items.1.id").Int())
		assert.Equal(t, int64(2), r.Query("items.#").Int())
		assert.False(t, r.Query("missing").Exists())
	})
}
