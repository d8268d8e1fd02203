// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package logging emits structured log/slog records for lyla calls.
//
// The records of one call share its correlation id in the "id"
// attribute:
//
//	requestStart (debug)    id, method, url
//	requestDone  (info)     id, method, url, status, elapsed
//	requestError (warn)     id, method, url, kind, stage, status, elapsed, err
//
// The stage attribute is only present for HOOK_ERROR. Install the hooks
// with Instance.Extend:
//
//	api = api.Extend(&lyla.Options{Hooks: logging.Hooks(slog.Default())})
package logging

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gogama/lyla"
)

var now = time.Now

// Hooks returns hooks that log the start and the outcome of every call
// to l. If l is nil, slog.Default() is used.
//
// The outcome is logged by an OnComplete hook, so every call is logged
// once, including calls ending in a HOOK_ERROR. A call that fails
// before its OnBeforeRequest hooks run has no requestStart record and
// no elapsed time.
func Hooks(l *slog.Logger) lyla.Hooks {
	if l == nil {
		l = slog.Default()
	}
	lg := &logger{l: l}
	return lyla.Hooks{
		OnBeforeRequest: []lyla.OptionsHook{lg.start},
		OnComplete:      []lyla.CompleteHook{lg.complete},
	}
}

type logger struct {
	l      *slog.Logger
	starts sync.Map
}

func (lg *logger) start(o *lyla.Options, id string) (*lyla.Options, error) {
	lg.starts.Store(id, now())
	lg.l.LogAttrs(o.Context(), slog.LevelDebug, "requestStart",
		slog.String("id", id),
		slog.String("method", o.Method),
		slog.String("url", o.URL),
	)
	return o, nil
}

func (lg *logger) complete(r *lyla.Response, err error, id string) {
	attrs := []slog.Attr{slog.String("id", id)}
	if err == nil {
		if r == nil {
			r = &lyla.Response{}
		}
		attrs = append(attrs, slog.Int("status", r.Status))
		attrs = append(attrs, lg.common(r.Options, id)...)
		lg.l.LogAttrs(r.Options.Context(), slog.LevelInfo, "requestDone", attrs...)
		return
	}

	e, ok := lyla.AsError(err)
	if !ok {
		e = &lyla.Error{Err: err}
	}
	attrs = append(attrs, slog.String("kind", e.Kind.String()))
	if e.Kind == lyla.HookError {
		attrs = append(attrs, slog.String("stage", e.Stage.String()))
	}
	if e.Response != nil {
		attrs = append(attrs, slog.Int("status", e.Response.Status))
	}
	attrs = append(attrs, lg.common(e.Options, id)...)
	if e.Err != nil {
		attrs = append(attrs, slog.String("err", e.Err.Error()))
	}
	lg.l.LogAttrs(e.Options.Context(), slog.LevelWarn, "requestError", attrs...)
}

// common returns the method, URL and elapsed time attributes, and
// forgets the start time of the call.
func (lg *logger) common(o *lyla.Options, id string) []slog.Attr {
	var attrs []slog.Attr
	if o != nil {
		attrs = append(attrs, slog.String("method", o.Method), slog.String("url", o.URL))
	}
	if t, ok := lg.starts.LoadAndDelete(id); ok {
		attrs = append(attrs, slog.Duration("elapsed", now().Sub(t.(time.Time))))
	}
	return attrs
}
