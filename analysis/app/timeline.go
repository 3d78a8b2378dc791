// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"net/http"

	"golang.org/x/speedcenter/analysis"
)

// timeline handles /timeline.
// It returns the default settings of the timeline page.
func (a *App) timeline(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if r.Method != http.MethodGet {
		http.Error(w, "/timeline must be called as a GET request", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := &form{r: r}
	q := analysis.TimelineQuery{
		Benchmark:    r.Form.Get("benchmark"),
		Interpreters: f.ids("interpreters"),
		Revisions:    f.int("revisions"),
	}
	if f.has("baseline") {
		on := r.Form.Get("baseline") != "false"
		q.Baseline = &on
	}
	if f.err != nil {
		writeError(ctx, w, f.err)
		return
	}

	d, err := a.Engine.ResolveTimeline(ctx, q)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, d)
}

// timelineData is the response to /timeline/data.
type timelineData struct {
	Timelines []*analysis.Timeline `json:"timelines"`
}

// timelineData handles /timeline/data.
// It returns the result series of the requested interpreters for one
// benchmark, or for every benchmark if benchmark is "grid".
func (a *App) timelineData(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if r.Method != http.MethodGet {
		http.Error(w, "/timeline/data must be called as a GET request", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := &form{r: r}
	req := analysis.TimelineRequest{
		Interpreters: f.ids("interpreters"),
		Revisions:    f.int("revisions"),
		Baseline:     r.Form.Get("baseline") == "true",
		Environment:  f.int64("environment"),
	}
	if f.err != nil {
		writeError(ctx, w, f.err)
		return
	}
	var err error
	if req.Benchmark, err = a.Engine.BenchmarkSelector(ctx, r.Form.Get("benchmark")); err != nil {
		writeError(ctx, w, err)
		return
	}

	tls, err := a.Engine.Timelines(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, timelineData{Timelines: tls})
}
