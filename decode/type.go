// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package decode

import (
	"fmt"
	"strings"
)

// A Type is the declared decoding mode for a response body.
type Type string

const (
	// TypeText surfaces the body as a string.
	TypeText Type = "text"
	// TypeJSON surfaces the body as a string and parses it as JSON.
	TypeJSON Type = "json"
	// TypeBlob surfaces the body as an opaque Blob.
	TypeBlob Type = "blob"
	// TypeArrayBuffer surfaces the body as a raw byte slice.
	TypeArrayBuffer Type = "arraybuffer"
)

// DefaultType is the response type used when none is declared.
const DefaultType = TypeJSON

// Valid reports whether t is one of the four supported types.
func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeJSON, TypeBlob, TypeArrayBuffer:
		return true
	default:
		return false
	}
}

// ParseType parses a response type name case-insensitively. The empty
// string parses to DefaultType.
func ParseType(s string) (Type, error) {
	if s == "" {
		return DefaultType, nil
	}
	t := Type(strings.ToLower(s))
	if !t.Valid() {
		return "", fmt.Errorf("lyla/decode: unknown response type %q", s)
	}
	return t, nil
}

// A Sniff is the policy deciding which response types have their JSON
// view filled opportunistically when the server declares a JSON content
// type.
type Sniff int

const (
	// SniffDefault is the zero value. It behaves like SniffText, but
	// lets request options that leave the policy unset inherit it from
	// their parent.
	SniffDefault Sniff = iota
	// SniffText fills the JSON view of text responses only.
	SniffText
	// SniffNever never fills the JSON view except for TypeJSON.
	SniffNever
	// SniffAll fills the JSON view for every response type.
	SniffAll
	sniffSentinel
)

var sniffNames = []string{
	"default",
	"text",
	"never",
	"all",
}

// String returns the name of the policy.
func (s Sniff) String() string {
	if s < 0 || s >= sniffSentinel {
		return fmt.Sprintf("Sniff(%d)", int(s))
	}
	return sniffNames[s]
}

// ParseSniff parses a sniff policy name. The empty string parses to
// SniffDefault.
func ParseSniff(s string) (Sniff, error) {
	if s == "" {
		return SniffDefault, nil
	}
	for i, name := range sniffNames {
		if strings.EqualFold(s, name) {
			return Sniff(i), nil
		}
	}
	return 0, fmt.Errorf("lyla/decode: unknown sniff policy %q", s)
}

func (s Sniff) applies(t Type) bool {
	switch s {
	case SniffDefault, SniffText:
		return t == TypeText
	case SniffAll:
		return true
	default:
		return false
	}
}
