// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/speedcenter/store"
)

// addStatus is the response to a /result/add POST served as JSON.
type addStatus struct {
	// ResultID is the id of the stored result.
	ResultID int64 `json:"resultid"`
	// Created is false if an identical result already existed.
	Created bool `json:"created"`
}

// addResult is the handler for the /result/add endpoint. It stores
// the result described by the form values of a POST request.
func (a *App) addResult(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)

	if r.Method != http.MethodPost {
		http.Error(w, "/result/add must be called as a POST request", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s, err := store.ParseSubmission(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, created, err := a.DB.AddResult(ctx, s)
	switch {
	case errors.Is(err, store.ErrBadInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		errorf(ctx, "add result: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if created {
		infof(ctx, "stored result %d: %s %s %s at %s r%d", res.ID, s.BenchmarkName, s.InterpreterName, s.InterpreterCOptions, s.RevisionProject, s.RevisionNumber)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(addStatus{ResultID: res.ID, Created: created}); err != nil {
		errorf(ctx, "%v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
