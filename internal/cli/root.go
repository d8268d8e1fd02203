// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package cli implements the lyla command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogama/lyla/request"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCmd returns the lyla command with one subcommand per HTTP
// method, writing responses to stdout and diagnostics to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:     "lyla",
		Short:   "Send HTTP requests through the lyla hook pipeline",
		Version: version,
		Long: `lyla sends an HTTP request, decodes the response according to the
chosen response type, and prints it. Failed requests are reported with
their error kind: NO_RESPONSE, HTTP_ERROR, DECODE_ERROR or HOOK_ERROR.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringArrayP("header", "H", []string{}, "HTTP header to include, as 'Name: value' (can be used multiple times)")
	f.String("base-url", "", "Base URL relative request URLs are joined to")
	f.StringP("response-type", "t", "", "Response type: text, json, blob or arraybuffer (default json)")
	f.String("json", "", "JSON request body; a Content-Type of application/json is added unless set")
	f.StringP("data", "d", "", "Raw request body, or @file to read it from a file")
	f.String("config", "", "YAML or JSON profile file")
	f.String("profile", "", "Profile to use from the config file")
	f.String("query", "", "Print only the value at this gjson path of a JSON response")
	f.String("schema", "", "JSON Schema file the response must match")
	f.Duration("timeout", 0, "Request timeout (default from the profile, or 30s)")
	f.BoolP("verbose", "v", false, "Print the response status line and headers, and log the pipeline to stderr")
	f.Bool("no-color", false, "Disable colored output")

	for _, method := range []string{
		request.MethodGet,
		request.MethodHead,
		request.MethodPost,
		request.MethodPut,
		request.MethodPatch,
		request.MethodDelete,
		request.MethodOptions,
	} {
		root.AddCommand(newMethodCmd(method, stdout, stderr))
	}

	return root
}

func newMethodCmd(method string, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   strings.ToLower(method) + " URL",
		Short: fmt.Sprintf("Send a %s request to URL", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settingsFromFlags(cmd)
			if err != nil {
				return err
			}
			return send(cmd.Context(), method, args[0], s, stdout, stderr)
		},
	}
}

// exitError reports a failure that has already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Run runs the command line args and returns the process exit status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}

// Execute runs the command line of the process. It is called by
// main.main().
func Execute() int {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}
