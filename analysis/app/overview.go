// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"net/http"

	"golang.org/x/speedcenter/analysis"
)

// overview handles /overview.
// It returns the default settings of the overview page and the
// interpreters, revisions, baselines and environments to choose from.
func (a *App) overview(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if r.Method != http.MethodGet {
		http.Error(w, "/overview must be called as a GET request", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := &form{r: r}
	q := analysis.OverviewQuery{
		Trend:       f.int("trend"),
		Interpreter: f.int64("interpreter"),
		Revision:    f.int64("revision"),
	}
	if f.has("baseline") {
		b := f.int("baseline")
		q.Baseline = &b
	}
	if f.err != nil {
		writeError(ctx, w, f.err)
		return
	}

	d, err := a.Engine.ResolveOverview(ctx, q)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, d)
}

// overviewTable handles /overview/table.
// It returns the summary of every benchmark for one interpreter at
// one revision.
func (a *App) overviewTable(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if r.Method != http.MethodGet {
		http.Error(w, "/overview/table must be called as a GET request", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := &form{r: r}
	req := analysis.OverviewRequest{
		Interpreter: f.int64("interpreter"),
		Revision:    f.int64("revision"),
		Trend:       f.int("trend"),
		Environment: f.int64("environment"),
	}
	if !f.has("revision") {
		req.Revision = analysis.Latest
	}
	// The page sends "undefined" when no baseline is selected.
	if b := r.Form.Get("baseline"); b != "" && b != "undefined" {
		req.Baseline = f.int("baseline")
	}
	if f.err != nil {
		writeError(ctx, w, f.err)
		return
	}

	ov, err := a.Engine.Overview(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, ov)
}
