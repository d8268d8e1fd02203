// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gogama/lyla"
	"github.com/gogama/lyla/config"
	"github.com/gogama/lyla/decode"
	"github.com/gogama/lyla/logging"
	"github.com/gogama/lyla/schema"
	"github.com/spf13/cobra"
)

// settings are the parsed command line flags shared by every method.
type settings struct {
	headers      http.Header
	baseURL      string
	responseType decode.Type
	json         json.RawMessage
	data         string
	hasData      bool
	configPath   string
	profile      string
	query        string
	schemaPath   string
	timeout      time.Duration
	verbose      bool
	noColor      bool
}

func settingsFromFlags(cmd *cobra.Command) (*settings, error) {
	f := cmd.Flags()
	s := &settings{}

	headers, _ := f.GetStringArray("header")
	for _, h := range headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("bad header %q: want 'Name: value'", h)
		}
		if s.headers == nil {
			s.headers = http.Header{}
		}
		s.headers.Add(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}

	s.baseURL, _ = f.GetString("base-url")

	rt, _ := f.GetString("response-type")
	if rt != "" {
		t, err := decode.ParseType(rt)
		if err != nil {
			return nil, err
		}
		s.responseType = t
	}

	j, _ := f.GetString("json")
	if j != "" {
		if !json.Valid([]byte(j)) {
			return nil, errors.New("--json is not valid JSON")
		}
		s.json = json.RawMessage(j)
	}

	if f.Changed("data") {
		d, _ := f.GetString("data")
		if strings.HasPrefix(d, "@") {
			b, err := os.ReadFile(d[1:])
			if err != nil {
				return nil, err
			}
			d = string(b)
		}
		s.data, s.hasData = d, true
	}
	if s.json != nil && s.hasData {
		return nil, errors.New("--json and --data are mutually exclusive")
	}

	s.configPath, _ = f.GetString("config")
	s.profile, _ = f.GetString("profile")
	if s.profile != "" && s.configPath == "" {
		return nil, errors.New("--profile requires --config")
	}
	s.query, _ = f.GetString("query")
	s.schemaPath, _ = f.GetString("schema")
	s.timeout, _ = f.GetDuration("timeout")
	s.verbose, _ = f.GetBool("verbose")
	s.noColor, _ = f.GetBool("no-color")

	return s, nil
}

// instance builds the instance the request is sent from: the profile,
// if any, overridden by the flags, plus the logging and schema hooks.
func (s *settings) instance(stderr io.Writer) (*lyla.Instance, error) {
	p := &config.Profile{}
	if s.configPath != "" {
		var err error
		p, err = config.Load(s.configPath, s.profile)
		if err != nil {
			return nil, err
		}
	}
	if s.baseURL != "" {
		p.BaseURL = s.baseURL
	}
	if s.timeout > 0 {
		p.Timeout = config.Duration(s.timeout)
		p.MethodTimeouts = nil
	}

	in, err := p.Instance(nil)
	if err != nil {
		return nil, err
	}

	var hooks lyla.Hooks
	if s.schemaPath != "" {
		doc, err := os.ReadFile(s.schemaPath)
		if err != nil {
			return nil, err
		}
		sch, err := schema.Compile(s.schemaPath, doc)
		if err != nil {
			return nil, err
		}
		hooks.OnAfterResponse = append(hooks.OnAfterResponse, schema.Hook(sch))
	}
	if s.verbose {
		l := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		hooks = hooks.Concat(logging.Hooks(l))
	}

	return in.Extend(&lyla.Options{Hooks: hooks}), nil
}

func (s *settings) options(method, url string) *lyla.Options {
	o := &lyla.Options{
		URL:          url,
		Method:       method,
		Header:       s.headers,
		ResponseType: s.responseType,
	}
	if s.json != nil {
		o.JSON = s.json
	} else if s.hasData {
		o.Body = s.data
	}
	if s.query != "" && o.ResponseType == "" {
		o.ResponseType = decode.TypeJSON
	}
	return o
}

func send(ctx context.Context, method, url string, s *settings, stdout, stderr io.Writer) error {
	in, err := s.instance(stderr)
	if err != nil {
		return err
	}

	p := newPrinter(stdout, stderr, s.noColor)
	resp, err := in.Do(ctx, s.options(method, url))
	if err != nil {
		p.printError(err)
		return &exitError{code: 1}
	}

	if s.verbose {
		p.printStatus(resp)
	}
	if s.query != "" {
		r := resp.Query(s.query)
		if !r.Exists() {
			p.printProblem(fmt.Sprintf("no value at %q", s.query))
			return &exitError{code: 1}
		}
		p.printQuery(r)
		return nil
	}
	p.printBody(resp)
	return nil
}
