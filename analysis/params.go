// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"errors"
	"fmt"

	"golang.org/x/net/context"
	"golang.org/x/speedcenter/store"
)

// recentRevisions is the number of revisions offered on the overview page.
const recentRevisions = 20

// OverviewQuery holds the optional settings of an overview page
// request. Zero values mean the setting was not given.
type OverviewQuery struct {
	Trend       int
	Interpreter int64
	// Baseline, if non-nil, is a position in the baseline list.
	// 0 selects no baseline.
	Baseline    *int
	Revision    int64
}

// OverviewDefaults are the resolved settings of an overview page and
// the choices offered alongside them.
type OverviewDefaults struct {
	Environment  *store.Environment   `json:"defaultenvironment"`
	Trend        int                  `json:"defaulttrend"`
	Trends       []int                `json:"trends"`
	Interpreter  int64                `json:"defaultinterpreter"`
	Baseline     int                  `json:"defaultbaseline"`
	Baselines    []Baseline           `json:"baseline"`
	Revision     int64                `json:"selectedrevision"`
	Interpreters []*store.Interpreter `json:"interpreters"`
	Revisions    []*store.Revision    `json:"lastrevisions"`
	Environments []*store.Environment `json:"hostlist"`
}

// ResolveOverview fills in the settings q leaves out. It returns an
// error wrapping store.ErrNoData if there is no environment or the
// project has no revisions, and one wrapping store.ErrNotFound if
// q.Revision names a revision that does not exist.
func (e *Engine) ResolveOverview(ctx context.Context, q OverviewQuery) (*OverviewDefaults, error) {
	env, err := e.DefaultEnvironment(ctx)
	if err != nil {
		return nil, err
	}
	d := &OverviewDefaults{
		Environment: env,
		Trend:       TrendWindow(q.Trend),
		Trends:      TrendWindows,
	}

	ids, _, err := e.DefaultInterpreters(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		d.Interpreter = ids[0]
	}
	if q.Interpreter != 0 {
		if _, err := e.Store.Interpreter(ctx, q.Interpreter); err == nil {
			d.Interpreter = q.Interpreter
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	if d.Baselines, err = e.Baselines(ctx); err != nil {
		return nil, err
	}
	d.Baseline = 1
	if b := q.Baseline; b != nil && *b >= 0 && *b <= len(d.Baselines) {
		d.Baseline = *b
	}

	if d.Interpreters, err = e.ProjectInterpreters(ctx); err != nil {
		return nil, err
	}
	if d.Revisions, err = e.Revisions(ctx, Latest, recentRevisions); err != nil {
		return nil, err
	}
	if len(d.Revisions) == 0 {
		return nil, fmt.Errorf("no data found for project %q: %w", e.Config.Project, store.ErrNoData)
	}
	d.Revision = d.Revisions[0].Number
	if q.Revision > 0 {
		rev, err := e.Store.Revision(ctx, q.Revision, e.Config.Project)
		if err != nil {
			return nil, err
		}
		d.Revision = rev.Number
	}

	if d.Environments, err = e.Store.Environments(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// TimelineQuery holds the optional settings of a timeline page request.
type TimelineQuery struct {
	// Baseline, if non-nil, turns the baseline on or off.
	Baseline *bool
	// Benchmark is a benchmark id or name, or "" for all.
	Benchmark string
	// Interpreters, if non-nil, replaces the default interpreters.
	// Ids that do not exist are dropped.
	Interpreters []int64
	Revisions    int
}

// TimelineDefaults are the resolved settings of a timeline page and
// the choices offered alongside them.
type TimelineDefaults struct {
	Environment  int64                `json:"defaultenvironment"`
	Baseline     bool                 `json:"defaultbaseline"`
	BaselineInfo *Baseline            `json:"baseline,omitempty"`
	Benchmark    int64                `json:"defaultbenchmark"`
	Interpreters []int64              `json:"defaultinterpreters"`
	Revisions    int                  `json:"defaultlast"`
	WindowSizes  []int                `json:"lastrevisions"`
	Choices      []*store.Interpreter `json:"interpreters"`
	Benchmarks   []*store.Benchmark   `json:"benchmarks"`
	Environments []*store.Environment `json:"hostlist"`
}

// ResolveTimeline fills in the settings q leaves out. It returns an
// error wrapping store.ErrNoData if there is no environment, and one
// wrapping store.ErrNotFound if q.Benchmark names no benchmark.
func (e *Engine) ResolveTimeline(ctx context.Context, q TimelineQuery) (*TimelineDefaults, error) {
	list, err := e.Baselines(ctx)
	if err != nil {
		return nil, err
	}
	env, err := e.DefaultEnvironment(ctx)
	if err != nil {
		return nil, err
	}
	d := &TimelineDefaults{
		Environment: env.ID,
		Baseline:    q.Baseline == nil || *q.Baseline,
		Revisions:   WindowSize(q.Revisions),
		WindowSizes: WindowSizes,
	}
	if len(list) > 0 {
		d.BaselineInfo = &list[0]
	}
	if d.Benchmark, err = e.BenchmarkSelector(ctx, q.Benchmark); err != nil {
		return nil, err
	}

	if q.Interpreters != nil {
		d.Interpreters = []int64{}
		for _, id := range q.Interpreters {
			if _, err := e.Store.Interpreter(ctx, id); err == nil {
				d.Interpreters = append(d.Interpreters, id)
			} else if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
		}
	} else if d.Interpreters, _, err = e.DefaultInterpreters(ctx); err != nil {
		return nil, err
	}

	if d.Choices, err = e.ProjectInterpreters(ctx); err != nil {
		return nil, err
	}
	if d.Benchmarks, err = e.Store.Benchmarks(ctx); err != nil {
		return nil, err
	}
	if d.Environments, err = e.Store.Environments(ctx); err != nil {
		return nil, err
	}
	return d, nil
}
