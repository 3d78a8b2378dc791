// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"errors"
	"reflect"
	"testing"

	"golang.org/x/net/context"
	"golang.org/x/speedcenter/store"
)

func TestResolveOverview(t *testing.T) {
	ctx := context.Background()
	e := &Engine{Store: overviewStore(), Config: Config{Project: "pypy"}}

	d, err := e.ResolveOverview(ctx, OverviewQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if d.Environment.Name != "tannit" {
		t.Errorf("Environment = %q, want tannit", d.Environment.Name)
	}
	if d.Trend != DefaultTrendWindow || d.Interpreter != 1 || d.Baseline != 1 || d.Revision != 7 {
		t.Errorf("defaults = trend %d, interpreter %d, baseline %d, revision %d; want 10, 1, 1, 7",
			d.Trend, d.Interpreter, d.Baseline, d.Revision)
	}
	if len(d.Revisions) != 7 || len(d.Interpreters) != 1 || len(d.Baselines) != 1 {
		t.Errorf("got %d revisions, %d interpreters, %d baselines; want 7, 1, 1",
			len(d.Revisions), len(d.Interpreters), len(d.Baselines))
	}

	three := 3
	d, err = e.ResolveOverview(ctx, OverviewQuery{Trend: 20, Interpreter: 2, Baseline: &three, Revision: 4})
	if err != nil {
		t.Fatal(err)
	}
	if d.Trend != 20 || d.Interpreter != 2 || d.Baseline != 1 || d.Revision != 4 {
		t.Errorf("requested = trend %d, interpreter %d, baseline %d, revision %d; want 20, 2, 1, 4",
			d.Trend, d.Interpreter, d.Baseline, d.Revision)
	}

	d, err = e.ResolveOverview(ctx, OverviewQuery{Trend: 3, Interpreter: 99})
	if err != nil {
		t.Fatal(err)
	}
	if d.Trend != DefaultTrendWindow || d.Interpreter != 1 {
		t.Errorf("invalid request = trend %d, interpreter %d; want 10, 1", d.Trend, d.Interpreter)
	}

	// An explicit 0 turns the baseline off.
	none := 0
	if d, err = e.ResolveOverview(ctx, OverviewQuery{Baseline: &none}); err != nil {
		t.Fatal(err)
	}
	if d.Baseline != 0 {
		t.Errorf("Baseline with 0 requested = %d, want 0", d.Baseline)
	}

	if _, err := e.ResolveOverview(ctx, OverviewQuery{Revision: 50}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ResolveOverview(revision 50) = %v, want ErrNotFound", err)
	}

	e.Config.Project = "jython"
	if _, err := e.ResolveOverview(ctx, OverviewQuery{}); !errors.Is(err, store.ErrNoData) {
		t.Errorf("ResolveOverview of empty project = %v, want ErrNoData", err)
	}

	if _, err := (&Engine{Store: &fakeStore{}}).ResolveOverview(ctx, OverviewQuery{}); !errors.Is(err, store.ErrNoData) {
		t.Errorf("ResolveOverview without environments = %v, want ErrNoData", err)
	}
}

func TestResolveTimeline(t *testing.T) {
	ctx := context.Background()
	s := overviewStore()
	s.addInterpreter("pypy-c-jit", "default")
	e := &Engine{Store: s, Config: Config{Project: "pypy"}}

	d, err := e.ResolveTimeline(ctx, TimelineQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if !d.Baseline || d.BaselineInfo == nil || d.Benchmark != AllBenchmarks || d.Revisions != DefaultWindowSize {
		t.Errorf("defaults = %+v", d)
	}
	if want := []int64{1, 3}; !reflect.DeepEqual(d.Interpreters, want) {
		t.Errorf("Interpreters = %v, want %v", d.Interpreters, want)
	}

	off := false
	d, err = e.ResolveTimeline(ctx, TimelineQuery{
		Baseline:     &off,
		Benchmark:    "float",
		Interpreters: []int64{3, 99, 2},
		Revisions:    37,
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Baseline || d.Benchmark != 2 || d.Revisions != DefaultWindowSize {
		t.Errorf("requested = baseline %v, benchmark %d, revisions %d; want false, 2, 200", d.Baseline, d.Benchmark, d.Revisions)
	}
	// Requested lists drop the ids that don't exist.
	if want := []int64{3, 2}; !reflect.DeepEqual(d.Interpreters, want) {
		t.Errorf("Interpreters = %v, want %v", d.Interpreters, want)
	}

	if _, err := e.ResolveTimeline(ctx, TimelineQuery{Benchmark: "nbody"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ResolveTimeline(nbody) = %v, want ErrNotFound", err)
	}
}
