// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"golang.org/x/speedcenter/store"
)

func TestSubmission(t *testing.T) {
	*project = "pypy"
	*revision = 42
	*interpreter = "pypy-c"
	*coptions = "gc=hybrid"
	*benchmark = "richards"
	*environment = "tannit"
	*units = "seconds"
	*stdDev = "0.01"
	defer func() { *units, *stdDev = "", "" }()

	f := submission("1.25")
	if _, ok := f["min"]; ok {
		t.Errorf("unset -min was submitted: %v", f)
	}
	s, err := store.ParseSubmission(f)
	if err != nil {
		t.Fatalf("ParseSubmission(%v): %v", f, err)
	}
	if s.RevisionNumber != 42 || s.Value != 1.25 || s.Date.IsZero() {
		t.Errorf("submission = %+v", s)
	}
	if s.Units == nil || *s.Units != "seconds" || s.StdDev == nil || *s.StdDev != 0.01 || s.Min != nil {
		t.Errorf("optional fields = units %v, std_dev %v, min %v", s.Units, s.StdDev, s.Min)
	}
}
