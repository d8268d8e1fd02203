// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/gogama/lyla"
	"github.com/gogama/lyla/decode"
	"github.com/mattn/go-isatty"
	"github.com/tidwall/gjson"
)

// colorScheme defines the colors used for the elements of the output.
type colorScheme struct {
	StatusOK    *color.Color
	StatusError *color.Color
	HeaderKey   *color.Color
	Kind        *color.Color
	Problem     *color.Color
}

func newColorScheme(enabled bool) *colorScheme {
	s := &colorScheme{
		StatusOK:    color.New(color.FgGreen, color.Bold),
		StatusError: color.New(color.FgRed, color.Bold),
		HeaderKey:   color.New(color.FgYellow),
		Kind:        color.New(color.FgMagenta, color.Bold),
		Problem:     color.New(color.FgRed),
	}
	for _, c := range []*color.Color{s.StatusOK, s.StatusError, s.HeaderKey, s.Kind, s.Problem} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type printer struct {
	out, err       io.Writer
	outCol, errCol *colorScheme
}

func newPrinter(stdout, stderr io.Writer, noColor bool) *printer {
	return &printer{
		out:    stdout,
		err:    stderr,
		outCol: newColorScheme(!noColor && isTerminal(stdout)),
		errCol: newColorScheme(!noColor && isTerminal(stderr)),
	}
}

func (p *printer) printStatus(r *lyla.Response) {
	p.statusLine(p.out, p.outCol, r)
}

func (p *printer) statusLine(w io.Writer, cs *colorScheme, r *lyla.Response) {
	c := cs.StatusOK
	if !r.OK() {
		c = cs.StatusError
	}
	c.Fprintf(w, "%d %s\n", r.Status, http.StatusText(r.Status))
	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range r.Header[k] {
			cs.HeaderKey.Fprintf(w, "%s:", k)
			fmt.Fprintf(w, " %s\n", v)
		}
	}
	fmt.Fprintln(w)
}

func (p *printer) printBody(r *lyla.Response) {
	switch b := r.Body.(type) {
	case []byte:
		_, _ = p.out.Write(b)
		return
	case decode.Blob:
		_, _ = io.Copy(p.out, b.Reader())
		return
	}
	if r.HasJSON {
		var buf bytes.Buffer
		if json.Indent(&buf, r.Raw, "", "  ") == nil {
			buf.WriteByte('\n')
			_, _ = buf.WriteTo(p.out)
			return
		}
	}
	text := r.Text()
	fmt.Fprint(p.out, text)
	if len(text) > 0 && text[len(text)-1] != '\n' {
		fmt.Fprintln(p.out)
	}
}

func (p *printer) printQuery(r gjson.Result) {
	if r.Type == gjson.String {
		fmt.Fprintln(p.out, r.String())
		return
	}
	fmt.Fprintln(p.out, r.Raw)
}

func (p *printer) printError(err error) {
	e, ok := lyla.AsError(err)
	if !ok {
		p.printProblem(err.Error())
		return
	}
	p.errCol.Kind.Fprint(p.err, e.Kind.String())
	fmt.Fprintf(p.err, " %s\n", e.Error())
	if e.Response != nil {
		p.statusLine(p.err, p.errCol, e.Response)
		text := e.Response.Text()
		if text != "" {
			fmt.Fprintln(p.err, text)
		}
	}
}

func (p *printer) printProblem(msg string) {
	p.errCol.Problem.Fprintf(p.err, "Error: %s\n", msg)
}
