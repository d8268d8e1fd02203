// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"name":"gopher","tags":["a","b"]}`)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, r.Method+" "+r.Header.Get("Content-Type")+" "+r.Header.Get("X-Test")+" "+string(b))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "nothing here")
	})
	mux.HandleFunc("/garbage", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "{not json")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func run(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = Run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, name, content string) string {
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestRun(t *testing.T) {
	server := newTestServer(t)

	testCases := []struct {
		name    string
		args    func(t *testing.T) []string
		asserts func(t *testing.T, code int, stdout, stderr string)
	}{
		{
			name: "get json",
			args: func(_ *testing.T) []string { return []string{"get", server.URL + "/user"} },
			asserts: func(t *testing.T, code int, stdout, stderr string) {
				assert.Equal(t, 0, code)
				assert.Equal(t, "{\n  \"name\": \"gopher\",\n  \"tags\": [\n    \"a\",\n    \"b\"\n  ]\n}\n", stdout)
				assert.Empty(t, stderr)
			},
		},
		{
			name: "base url",
			args: func(_ *testing.T) []string {
				return []string{"get", "--base-url", server.URL + "/", "/user", "--query", "name"}
			},
			asserts: func(t *testing.T, code int, stdout, _ string) {
				assert.Equal(t, 0, code)
				assert.Equal(t, "gopher\n", stdout)
			},
		},
		{
			name: "query array",
			args: func(_ *testing.T) []string { return []string{"get", server.URL + "/user", "--query", "tags"} },
			asserts: func(t *testing.T, code int, stdout, _ string) {
				assert.Equal(t, 0, code)
				assert.Equal(t, "[\"a\",\"b\"]\n", stdout)
			},
		},
		{
			name: "query no match",
			args: func(_ *testing.T) []string { return []string{"get", server.URL + "/user", "--query", "age"} },
			asserts: func(t *testing.T, code int, stdout, stderr string) {
				assert.Equal(t, 1, code)
				assert.Empty(t, stdout)
				assert.Contains(t, stderr, `no value at "age"`)
			},
		},
		{
			name: "post json",
			args: func(_ *testing.T) []string {
				return []string{"post", server.URL + "/echo", "-t", "text", "--json", `{"a":1}`, "-H", "X-Test: yes"}
			},
			asserts: func(t *testing.T, code int, stdout, _ string) {
				assert.Equal(t, 0, code)
				assert.Equal(t, "POST application/json yes {\"a\":1}\n", stdout)
			},
		},
		{
			name: "put data from file",
			args: func(t *testing.T) []string {
				p := writeFile(t, "body.txt", "file body")
				return []string{"put", server.URL + "/echo", "-t", "text", "-d", "@" + p, "-H", "Content-Type: text/plain"}
			},
			asserts: func(t *testing.T, code int, stdout, _ string) {
				assert.Equal(t, 0, code)
				assert.Equal(t, "PUT text/plain  file body\n", stdout)
			},
		},
		{
			name: "verbose",
			args: func(_ *testing.T) []string { return []string{"get", "-v", server.URL + "/user", "--no-color"} },
			asserts: func(t *testing.T, code int, stdout, stderr string) {
				assert.Equal(t, 0, code)
				assert.Contains(t, stdout, "200 OK\n")
				assert.Contains(t, stdout, "Content-Type: application/json\n")
				assert.Contains(t, stderr, "msg=requestDone")
			},
		},
		{
			name: "http error",
			args: func(_ *testing.T) []string { return []string{"get", server.URL + "/missing", "-t", "text"} },
			asserts: func(t *testing.T, code int, stdout, stderr string) {
				assert.Equal(t, 1, code)
				assert.Empty(t, stdout)
				assert.Contains(t, stderr, "HTTP_ERROR")
				assert.Contains(t, stderr, "404 Not Found")
				assert.Contains(t, stderr, "nothing here")
			},
		},
		{
			name: "decode error",
			args: func(_ *testing.T) []string { return []string{"get", server.URL + "/garbage"} },
			asserts: func(t *testing.T, code int, _, stderr string) {
				assert.Equal(t, 1, code)
				assert.Contains(t, stderr, "DECODE_ERROR")
			},
		},
		{
			name: "no response",
			args: func(_ *testing.T) []string { return []string{"get", "http://127.0.0.1:1/", "--timeout", "1s"} },
			asserts: func(t *testing.T, code int, _, stderr string) {
				assert.Equal(t, 1, code)
				assert.Contains(t, stderr, "NO_RESPONSE")
			},
		},
		{
			name: "schema mismatch",
			args: func(t *testing.T) []string {
				p := writeFile(t, "user.json", `{"type":"object","required":["age"]}`)
				return []string{"get", server.URL + "/user", "--schema", p}
			},
			asserts: func(t *testing.T, code int, _, stderr string) {
				assert.Equal(t, 1, code)
				assert.Contains(t, stderr, "HOOK_ERROR")
			},
		},
		{
			name: "schema match",
			args: func(t *testing.T) []string {
				p := writeFile(t, "user.json", `{"type":"object","required":["name"]}`)
				return []string{"get", server.URL + "/user", "--schema", p, "--query", "name"}
			},
			asserts: func(t *testing.T, code int, stdout, _ string) {
				assert.Equal(t, 0, code)
				assert.Equal(t, "gopher\n", stdout)
			},
		},
		{
			name: "config profile",
			args: func(t *testing.T) []string {
				p := writeFile(t, "lyla.yaml", "default: local\nprofiles:\n  local:\n    base_url: "+server.URL+"\n    response_type: text\n    headers:\n      X-Test: profile\n")
				return []string{"delete", "echo", "--config", p}
			},
			asserts: func(t *testing.T, code int, stdout, _ string) {
				assert.Equal(t, 0, code)
				assert.Equal(t, "DELETE  profile \n", stdout)
			},
		},
		{
			name: "bad header",
			args: func(_ *testing.T) []string { return []string{"get", server.URL, "-H", "nocolon"} },
			asserts: func(t *testing.T, code int, _, stderr string) {
				assert.Equal(t, 1, code)
				assert.Contains(t, stderr, "Error: bad header")
			},
		},
		{
			name: "bad json flag",
			args: func(_ *testing.T) []string { return []string{"post", server.URL, "--json", "{"} },
			asserts: func(t *testing.T, code int, _, stderr string) {
				assert.Equal(t, 1, code)
				assert.Contains(t, stderr, "not valid JSON")
			},
		},
		{
			name: "json and data",
			args: func(_ *testing.T) []string { return []string{"post", server.URL, "--json", "1", "-d", "x"} },
			asserts: func(t *testing.T, code int, _, stderr string) {
				assert.Equal(t, 1, code)
				assert.Contains(t, stderr, "mutually exclusive")
			},
		},
		{
			name: "bad response type",
			args: func(_ *testing.T) []string { return []string{"get", server.URL, "-t", "xml"} },
			asserts: func(t *testing.T, code int, _, stderr string) {
				assert.Equal(t, 1, code)
				assert.Contains(t, stderr, "Error:")
			},
		},
		{
			name: "missing url",
			args: func(_ *testing.T) []string { return []string{"get"} },
			asserts: func(t *testing.T, code int, _, stderr string) {
				assert.Equal(t, 1, code)
				assert.Contains(t, stderr, "accepts 1 arg(s)")
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			code, stdout, stderr := run(testCase.args(t)...)
			testCase.asserts(t, code, stdout, stderr)
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
