// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app implements the speed center analysis server. It serves
// the overview and timeline data as JSON.
package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/context"
	"golang.org/x/speedcenter/analysis"
	"golang.org/x/speedcenter/store"
)

// App manages the analysis server logic.
// Construct an App instance using a literal with an Engine and call
// RegisterOnMux to connect it with an HTTP server.
type App struct {
	Engine *analysis.Engine
}

// RegisterOnMux registers the app's URLs on mux.
func (a *App) RegisterOnMux(mux *http.ServeMux) {
	mux.HandleFunc("/overview", a.overview)
	mux.HandleFunc("/overview/table", a.overviewTable)
	mux.HandleFunc("/timeline", a.timeline)
	mux.HandleFunc("/timeline/data", a.timelineData)
}

// errorResponse is served with every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as the JSON response.
func writeJSON(ctx context.Context, w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		errorf(ctx, "%v", err)
	}
}

// writeError reports err with a status code chosen by its kind.
// An empty state is not a failure and is reported with status 200.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrBadInput):
		code = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, store.ErrNoData):
		code = http.StatusOK
	default:
		errorf(ctx, "%v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

// A form reads optional numeric request parameters. The first
// malformed parameter is kept in err and wraps store.ErrBadInput.
type form struct {
	r   *http.Request
	err error
}

func (f *form) has(key string) bool {
	_, ok := f.r.Form[key]
	return ok
}

func (f *form) int64(key string) int64 {
	v := f.r.Form.Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil && f.err == nil {
		f.err = badParam(key, v)
	}
	return n
}

func (f *form) int(key string) int {
	return int(f.int64(key))
}

// ids parses a comma-separated id list. A missing key yields nil and
// an empty value an empty list.
func (f *form) ids(key string) []int64 {
	if !f.has(key) {
		return nil
	}
	ids := []int64{}
	for _, s := range strings.Split(f.r.Form.Get(key), ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			if f.err == nil {
				f.err = badParam(key, s)
			}
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func badParam(key, value string) error {
	return &paramError{key, value}
}

type paramError struct {
	key, value string
}

func (e *paramError) Error() string {
	return "invalid " + e.key + " parameter " + strconv.Quote(e.value)
}

func (e *paramError) Unwrap() error { return store.ErrBadInput }
