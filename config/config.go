// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/gogama/lyla"
	"github.com/gogama/lyla/decode"
	"github.com/gogama/lyla/request"
	"github.com/gogama/lyla/timeout"
	"github.com/gogama/lyla/transport"
	"gopkg.in/yaml.v3"
)

// Profile is the human-readable configuration of a lyla instance.
//
// Every field is optional. An empty profile yields an instance with no
// defaults and the default timeout policy.
type Profile struct {
	// BaseURL is the base URL relative request URLs are joined to.
	BaseURL string `yaml:"base_url"`

	// Method is the default HTTP method.
	Method string `yaml:"method"`

	// Headers are default request header fields.
	Headers map[string]string `yaml:"headers"`

	// ResponseType is the default response type: text, json, blob or
	// arraybuffer.
	ResponseType string `yaml:"response_type"`

	// Sniff is the content-type sniffing policy: default, text, never
	// or all.
	Sniff string `yaml:"sniff"`

	// Timeout bounds each request (e.g. "10s"). Zero means the default
	// timeout policy.
	Timeout Duration `yaml:"timeout"`

	// MethodTimeouts overrides Timeout for specific methods.
	MethodTimeouts map[string]Duration `yaml:"method_timeouts"`
}

// Duration is a time.Duration that unmarshals from YAML strings (e.g. "60s", "5m").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the standard time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Options converts the profile into instance options. It returns an
// error if the method, response type or sniff policy is unknown.
func (p *Profile) Options() (*lyla.Options, error) {
	o := &lyla.Options{
		BaseURL: p.BaseURL,
	}
	if p.Method != "" {
		m := request.NormalizeMethod(p.Method)
		if !request.ValidMethod(m) {
			return nil, fmt.Errorf("lyla/config: unknown method %q", p.Method)
		}
		o.Method = m
	}
	if len(p.Headers) > 0 {
		o.Header = make(http.Header, len(p.Headers))
		for k, v := range p.Headers {
			o.Header.Set(k, v)
		}
	}
	if p.ResponseType != "" {
		t, err := decode.ParseType(p.ResponseType)
		if err != nil {
			return nil, err
		}
		o.ResponseType = t
	}
	s, err := decode.ParseSniff(p.Sniff)
	if err != nil {
		return nil, err
	}
	o.Sniff = s
	return o, nil
}

// TimeoutPolicy returns the timeout policy of the profile, or nil if the
// profile sets no timeouts.
func (p *Profile) TimeoutPolicy() timeout.Policy {
	if len(p.MethodTimeouts) > 0 {
		usual := p.Timeout.Duration()
		if usual == 0 {
			usual = timeout.DefaultPolicy.Timeout(nil)
		}
		m := make(map[string]time.Duration, len(p.MethodTimeouts))
		for method, d := range p.MethodTimeouts {
			m[method] = d.Duration()
		}
		return timeout.ByMethod(usual, m)
	}
	if p.Timeout != 0 {
		return timeout.Fixed(p.Timeout.Duration())
	}
	return nil
}

// Transport returns an HTTP transport adapter sending requests through
// doer, which may be nil for http.DefaultClient, with the profile's
// timeout policy.
func (p *Profile) Transport(doer transport.HTTPDoer) *transport.HTTP {
	return &transport.HTTP{
		HTTPDoer:      doer,
		TimeoutPolicy: p.TimeoutPolicy(),
	}
}

// Instance returns a new instance configured by the profile, sending
// requests through doer.
func (p *Profile) Instance(doer transport.HTTPDoer) (*lyla.Instance, error) {
	o, err := p.Options()
	if err != nil {
		return nil, err
	}
	return lyla.New(o, p.Transport(doer)), nil
}

// ParseProfile parses a YAML (or JSON) profile. Unknown fields are
// errors.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := decodeStrict(data, &p); err != nil {
		return nil, fmt.Errorf("lyla/config: %w", err)
	}
	return &p, nil
}

// File is the root structure of a file defining several named profiles.
//
//	default: staging
//	profiles:
//	  staging:
//	    base_url: https://staging.example.com/api/
//	    timeout: 5s
//	  prod:
//	    base_url: https://example.com/api/
//	    headers:
//	      Accept: application/json
type File struct {
	Default  string             `yaml:"default"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// ParseFile parses a YAML (or JSON) file of named profiles. Unknown
// fields are errors.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := decodeStrict(data, &f); err != nil {
		return nil, fmt.Errorf("lyla/config: %w", err)
	}
	return &f, nil
}

// Profile returns the named profile, or the default profile if name is
// empty.
func (f *File) Profile(name string) (*Profile, error) {
	if name == "" {
		name = f.Default
	}
	if name == "" && len(f.Profiles) == 1 {
		for only := range f.Profiles {
			name = only
		}
	}
	p, ok := f.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("lyla/config: no profile %q (have %v)", name, f.names())
	}
	return &p, nil
}

func (f *File) names() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads the file at path and returns the named profile. The file
// may hold a single profile, in which case name must be empty, or
// several profiles under a "profiles" key.
func Load(path, name string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lyla/config: %w", err)
	}
	var top map[string]interface{}
	if err = yaml.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("lyla/config: %s: %w", path, err)
	}
	if _, ok := top["profiles"]; ok {
		f, err := ParseFile(data)
		if err != nil {
			return nil, err
		}
		return f.Profile(name)
	}
	if name != "" {
		return nil, fmt.Errorf("lyla/config: %s defines no profiles, cannot select %q", path, name)
	}
	return ParseProfile(data)
}

func decodeStrict(data []byte, v interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
