// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package schema validates JSON responses against a JSON Schema from an
// OnAfterResponse hook.
//
//	s, err := schema.Compile("user.json", doc)
//	...
//	users := api.Extend(&lyla.Options{
//		Hooks: lyla.Hooks{OnAfterResponse: []lyla.ResponseHook{schema.Hook(s)}},
//	})
//
// A response that does not match the schema fails the call with a
// HOOK_ERROR whose cause is a *ValidationError.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gogama/lyla"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const defaultName = "schema.json"

// A Schema is a compiled JSON Schema.
type Schema struct {
	name   string
	schema *jsonschema.Schema
}

// Compile compiles the JSON Schema document doc. The name identifies the
// schema in error messages and resolves relative references; if it is
// empty, "schema.json" is used.
func Compile(name string, doc []byte) (*Schema, error) {
	if name == "" {
		name = defaultName
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("lyla/schema: invalid schema %s: %w", name, err)
	}
	s, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("lyla/schema: invalid schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// Name returns the name the schema was compiled with.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks v, a value as produced by encoding/json decoding into
// an interface{}, against the schema. It returns a *ValidationError if
// v does not match.
func (s *Schema) Validate(v interface{}) error {
	err := s.schema.Validate(v)
	if err == nil {
		return nil
	}
	ve := &ValidationError{Schema: s.name, Err: err}
	var jve *jsonschema.ValidationError
	if errors.As(err, &jve) {
		ve.Problems = problems(jve)
	}
	return ve
}

// A ValidationError reports a JSON value that does not match a schema.
type ValidationError struct {
	// Schema is the name of the schema.
	Schema string
	// Problems lists each violation as "<instance location>: <message>".
	Problems []string
	// Err is the error reported by the validator.
	Err error
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return fmt.Sprintf("lyla/schema: %s: %v", e.Schema, e.Err)
	}
	return fmt.Sprintf("lyla/schema: %s: %s", e.Schema, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func problems(err *jsonschema.ValidationError) []string {
	var out []string
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out = append(out, loc+": "+err.Message)
	}
	for _, cause := range err.Causes {
		out = append(out, problems(cause)...)
	}
	return out
}

// Hook returns an OnAfterResponse hook validating the JSON view of each
// response against s. When the response has no JSON view, for example
// because its response type is text and it was not sniffed, the raw
// payload is parsed instead; an empty payload validates as JSON null.
func Hook(s *Schema) lyla.ResponseHook {
	return func(r *lyla.Response, _ string) (*lyla.Response, error) {
		v := r.JSON
		if v == nil && len(bytes.TrimSpace(r.Raw)) > 0 {
			if err := json.Unmarshal(r.Raw, &v); err != nil {
				return r, fmt.Errorf("lyla/schema: %s: response is not JSON: %w", s.name, err)
			}
		}
		if err := s.Validate(v); err != nil {
			return r, err
		}
		return r, nil
	}
}
