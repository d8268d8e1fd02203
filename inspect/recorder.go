// Copyright 2021 The lyla Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package inspect

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/gogama/lyla"
)

var now = time.Now

// Latency histogram bounds, in microseconds.
const (
	histMin     = 1
	histMax     = int64(10 * time.Minute / time.Microsecond)
	histSigFigs = 3
)

const noLimit = 0

// A State is the progress of a recorded request.
type State int

const (
	// Pending means the request was sent and has not ended yet.
	Pending State = iota
	// OK means the request ended with a successful response.
	OK
	// Error means the request ended with a pipeline error carrying a
	// response, such as an HTTP_ERROR.
	Error
	// ErrorWithoutResponse means the request ended with a pipeline error
	// without any response, such as a NO_RESPONSE.
	ErrorWithoutResponse
	stateSentinel
)

var stateNames = []string{
	"pending",
	"ok",
	"error",
	"errorWithoutResponse",
}

func (s State) String() string {
	if s < 0 || s >= stateSentinel {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// A Record describes one request seen by a Recorder.
type Record struct {
	// ID is the correlation id of the call.
	ID string
	// State is the progress of the request.
	State State

	// Method, URL, Header and JSON are the request as sent.
	Method string
	URL    string
	Header http.Header
	JSON   interface{}

	// Status, ResponseHeader and ResponseBody describe the response,
	// if there is one.
	Status         int
	ResponseHeader http.Header
	ResponseBody   interface{}

	// Kind and Err describe the pipeline error, if the request failed.
	Kind lyla.Kind
	Err  error

	// Start is when the request was sent, and End when it ended. End is
	// zero for a pending request.
	Start time.Time
	End   time.Time
}

// Duration returns the time between Start and End, or zero if the
// request is still pending or was never sent.
func (r *Record) Duration() time.Duration {
	if r.End.IsZero() || r.Start.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// A Recorder keeps an id-keyed registry of the requests of every
// instance its hooks are installed on, together with a latency
// histogram of the requests that ended. It is safe for concurrent use.
type Recorder struct {
	max int

	mu      sync.Mutex
	records map[string]*Record
	order   []string
	hist    *hdrhistogram.Histogram
}

// NewRecorder returns a recorder keeping at most max records, forgetting
// the oldest ones first. If max is zero or negative, the recorder keeps
// every record.
func NewRecorder(max int) *Recorder {
	if max < 0 {
		max = noLimit
	}
	return &Recorder{
		max:     max,
		records: make(map[string]*Record),
		hist:    hdrhistogram.New(histMin, histMax, histSigFigs),
	}
}

// Hooks returns the hooks that feed the recorder. Install them with
// Instance.Extend after any hooks that rewrite the request, so the
// recorder sees it as sent.
//
// Every call ends its record, however it ended: a HOOK_ERROR is
// recorded like any other pipeline error, and a call recovered by an
// OnResponseError hook is recorded as OK with the recovered response.
func (rec *Recorder) Hooks() lyla.Hooks {
	return lyla.Hooks{
		OnBeforeRequest: []lyla.OptionsHook{rec.before},
		OnComplete:      []lyla.CompleteHook{rec.complete},
	}
}

func (rec *Recorder) before(o *lyla.Options, id string) (*lyla.Options, error) {
	r := &Record{
		ID:     id,
		State:  Pending,
		Method: o.Method,
		URL:    o.URL,
		Header: o.Header.Clone(),
		JSON:   o.JSON,
		Start:  now(),
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.add(r)
	return o, nil
}

func (rec *Recorder) complete(resp *lyla.Response, err error, id string) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if err == nil {
		var o *lyla.Options
		if resp != nil {
			o = resp.Options
		}
		r := rec.get(id, o)
		r.State = OK
		if resp != nil {
			rec.setResponse(r, resp)
		}
		rec.end(r)
		return
	}

	e, ok := lyla.AsError(err)
	if !ok {
		e = &lyla.Error{Err: err}
	}
	r := rec.get(id, e.Options)
	r.Kind = e.Kind
	r.Err = e.Err
	if e.Response != nil {
		r.State = Error
		rec.setResponse(r, e.Response)
	} else {
		r.State = ErrorWithoutResponse
	}
	rec.end(r)
}

// get finds the record for id, creating one if the request was never
// sent, and updates it from the final options o, which carry the header
// exactly as sent. The caller must hold rec.mu.
func (rec *Recorder) get(id string, o *lyla.Options) *Record {
	r, ok := rec.records[id]
	if !ok {
		r = &Record{ID: id}
		rec.add(r)
	}
	if o != nil {
		r.Method = o.Method
		r.URL = o.URL
		r.Header = o.Header.Clone()
		r.JSON = o.JSON
	}
	return r
}

func (rec *Recorder) add(r *Record) {
	rec.records[r.ID] = r
	rec.order = append(rec.order, r.ID)
	if rec.max != noLimit && len(rec.order) > rec.max {
		n := len(rec.order) - rec.max
		for _, id := range rec.order[:n] {
			delete(rec.records, id)
		}
		rec.order = append([]string(nil), rec.order[n:]...)
	}
}

func (rec *Recorder) setResponse(r *Record, resp *lyla.Response) {
	r.Status = resp.Status
	r.ResponseHeader = resp.Header.Clone()
	r.ResponseBody = resp.Body
}

func (rec *Recorder) end(r *Record) {
	r.End = now()
	if r.Start.IsZero() {
		return
	}
	v := r.End.Sub(r.Start).Microseconds()
	if v < histMin {
		v = histMin
	} else if v > histMax {
		v = histMax
	}
	_ = rec.hist.RecordValue(v)
}

// Records returns copies of the records, oldest first.
func (rec *Recorder) Records() []Record {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]Record, 0, len(rec.order))
	for _, id := range rec.order {
		out = append(out, *rec.records[id])
	}
	return out
}

// Get returns a copy of the record for the correlation id.
func (rec *Recorder) Get(id string) (Record, bool) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	r, ok := rec.records[id]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Latency returns the latency at quantile q, between 0 and 1, of the
// requests that were sent and have ended. It returns zero if there are
// none.
func (rec *Recorder) Latency(q float64) time.Duration {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.hist.TotalCount() == 0 {
		return 0
	}
	return time.Duration(rec.hist.ValueAtQuantile(q*100)) * time.Microsecond
}

// Count returns the number of ended requests in the latency histogram.
func (rec *Recorder) Count() int64 {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.hist.TotalCount()
}

// Reset forgets every record and resets the latency histogram.
func (rec *Recorder) Reset() {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.records = make(map[string]*Record)
	rec.order = nil
	rec.hist.Reset()
}
