// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schema

import (
	"context"
	"testing"

	"github.com/gogama/lyla"
	"github.com/gogama/lyla/decode"
	"github.com/gogama/lyla/request"
	"github.com/gogama/lyla/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id": {"type": "integer"},
		"name": {"type": "string"}
	}
}`

func TestCompile(t *testing.T) {
	s, err := Compile("", []byte(userSchema))
	require.NoError(t, err)
	assert.Equal(t, "schema.json", s.Name())

	_, err = Compile("bad.json", []byte(`{"type": 12}`))
	assert.Error(t, err)

	_, err = Compile("broken.json", []byte(`{`))
	assert.Error(t, err)
}

func TestSchema_Validate(t *testing.T) {
	s, err := Compile("user.json", []byte(userSchema))
	require.NoError(t, err)

	assert.NoError(t, s.Validate(map[string]interface{}{"id": float64(1), "name": "a"}))

	err = s.Validate(map[string]interface{}{"id": "x"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "user.json", ve.Schema)
	assert.NotEmpty(t, ve.Problems)
	assert.Contains(t, err.Error(), "lyla/schema: user.json: ")
}

func TestHook(t *testing.T) {
	s, err := Compile("user.json", []byte(userSchema))
	require.NoError(t, err)

	testCases := []struct {
		name    string
		rt      decode.Type
		body    string
		wantErr bool
	}{
		{"valid json", decode.TypeJSON, `{"id":1,"name":"gopher"}`, false},
		{"invalid json", decode.TypeJSON, `{"id":1}`, true},
		{"valid text", decode.TypeText, `{"id":2,"name":"text"}`, false},
		{"text not json", decode.TypeText, `hello`, true},
		{"empty", decode.TypeJSON, ``, true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			in := lyla.New(&lyla.Options{
				ResponseType: testCase.rt,
				Hooks:        lyla.Hooks{OnAfterResponse: []lyla.ResponseHook{Hook(s)}},
			}, transport.AdapterFunc(func(context.Context, *request.Plan) (*transport.Result, error) {
				return &transport.Result{Status: 200, Body: []byte(testCase.body)}, nil
			}))

			resp, err := in.Get(context.Background(), "http://example.com/user", nil)

			if !testCase.wantErr {
				require.NoError(t, err)
				assert.Equal(t, testCase.body, resp.Body)
				return
			}
			e, ok := lyla.AsError(err)
			require.True(t, ok)
			assert.Equal(t, lyla.HookError, e.Kind)
			assert.Equal(t, lyla.AfterResponse, e.Stage)
			require.NotNil(t, e.Response)
		})
	}
}
