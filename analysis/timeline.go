// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/net/context"
	"golang.org/x/speedcenter/store"
)

// GridRevisions is the length of every series when a timeline
// request selects AllBenchmarks.
const GridRevisions = 15

// A TimelineRequest selects the series assembled by Timelines.
type TimelineRequest struct {
	Interpreters []int64
	// Benchmark is a benchmark id or AllBenchmarks.
	Benchmark int64
	// Revisions is the maximum length of each series. It is
	// ignored when Benchmark is AllBenchmarks.
	Revisions int
	// Baseline requests the value of the first baseline for each
	// benchmark.
	Baseline bool
	// Environment restricts results to one environment if non-zero.
	Environment int64
}

// A Timeline holds the results of one benchmark across revisions.
type Timeline struct {
	Benchmark   string `json:"benchmark"`
	BenchmarkID int64  `json:"benchmark_id"`
	// Baseline is the baseline's result for this benchmark, or nil
	// if there is none.
	Baseline *float64 `json:"baseline,omitempty"`
	// Series holds one series per requested interpreter, in
	// request order.
	Series []Series `json:"interpreters"`
}

// A Series is the results of one interpreter, newest revision first.
type Series struct {
	Interpreter int64   `json:"interpreter"`
	Points      []Point `json:"points"`
}

// A Point is one result in a Series.
type Point struct {
	Revision int64   `json:"revision"`
	Value    float64 `json:"value"`
}

// Timelines assembles the timelines for req. An empty interpreter
// list is rejected with an error wrapping store.ErrBadInput.
func (e *Engine) Timelines(ctx context.Context, req TimelineRequest) ([]*Timeline, error) {
	if len(req.Interpreters) == 0 {
		return nil, fmt.Errorf("no interpreters selected: %w", store.ErrBadInput)
	}

	var benchmarks []*store.Benchmark
	n := req.Revisions
	if req.Benchmark == AllBenchmarks {
		all, err := e.Store.Benchmarks(ctx)
		if err != nil {
			return nil, err
		}
		benchmarks = append(benchmarks, all...)
		sort.SliceStable(benchmarks, func(i, j int) bool {
			return benchmarks[i].Name < benchmarks[j].Name
		})
		n = GridRevisions
	} else {
		b, err := e.Store.Benchmark(ctx, req.Benchmark)
		if err != nil {
			return nil, err
		}
		benchmarks = append(benchmarks, b)
	}
	if n <= 0 {
		n = DefaultWindowSize
	}

	var base *Baseline
	if req.Baseline {
		b, err := e.timelineBaseline(ctx)
		if err != nil {
			return nil, err
		}
		base = b
	}

	timelines := []*Timeline{}
	for _, b := range benchmarks {
		t := &Timeline{Benchmark: b.Name, BenchmarkID: b.ID}
		if base != nil {
			results, err := e.Store.Results(ctx, store.ResultQuery{
				Project:     base.Project,
				Revisions:   []int64{base.Revision},
				Interpreter: base.Interpreter,
				Benchmark:   b.ID,
				Environment: req.Environment,
				Limit:       1,
			})
			if err != nil {
				return nil, err
			}
			if len(results) > 0 {
				v := results[0].Value
				t.Baseline = &v
			}
		}
		for _, in := range req.Interpreters {
			results, err := e.Store.Results(ctx, store.ResultQuery{
				Project:     e.Config.Project,
				Interpreter: in,
				Benchmark:   b.ID,
				Environment: req.Environment,
				Limit:       n,
			})
			if err != nil {
				return nil, err
			}
			s := Series{Interpreter: in, Points: []Point{}}
			for _, r := range results {
				s.Points = append(s.Points, Point{Revision: r.RevisionNumber, Value: r.Value})
			}
			t.Series = append(t.Series, s)
		}
		timelines = append(timelines, t)
	}
	return timelines, nil
}

// timelineBaseline returns the first baseline if its revision exists,
// and nil otherwise.
func (e *Engine) timelineBaseline(ctx context.Context) (*Baseline, error) {
	list, err := e.Baselines(ctx)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	b := list[0]
	if _, err := e.Store.Revision(ctx, b.Revision, b.Project); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
