// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/context"
	"golang.org/x/speedcenter/store"
)

// AllBenchmarks selects every benchmark in a timeline request.
const AllBenchmarks int64 = 0

// WindowSizes are the numbers of revisions a timeline may show.
var WindowSizes = []int{10, 50, 200, 1000}

// DefaultWindowSize is used when a requested window is not one of
// WindowSizes.
const DefaultWindowSize = 200

// TrendWindows are the numbers of revisions the overview may average.
var TrendWindows = []int{5, 10, 20, 100}

// DefaultTrendWindow is used when a requested trend window is not one
// of TrendWindows.
const DefaultTrendWindow = 10

func oneOf(n int, set []int, def int) int {
	for _, v := range set {
		if n == v {
			return n
		}
	}
	return def
}

// WindowSize returns requested if it is one of WindowSizes, and
// DefaultWindowSize otherwise.
func WindowSize(requested int) int {
	return oneOf(requested, WindowSizes, DefaultWindowSize)
}

// TrendWindow returns requested if it is one of TrendWindows, and
// DefaultTrendWindow otherwise.
func TrendWindow(requested int) int {
	return oneOf(requested, TrendWindows, DefaultTrendWindow)
}

// DefaultEnvironment returns the configured default environment, or
// the first environment if it is not configured or does not exist.
// If there are no environments at all it returns an error wrapping
// store.ErrNoData.
func (e *Engine) DefaultEnvironment(ctx context.Context) (*store.Environment, error) {
	envs, err := e.Store.Environments(ctx)
	if err != nil {
		return nil, err
	}
	if len(envs) == 0 {
		return nil, fmt.Errorf("you need to configure at least one environment: %w", store.ErrNoData)
	}
	if name := e.Config.DefaultEnvironment; name != "" {
		env, err := e.Store.EnvironmentByName(ctx, name)
		switch {
		case err == nil:
			return env, nil
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}
	return envs[0], nil
}

// DefaultInterpreters returns the ids of the interpreters shown by
// default. The configured list is used only if every id in it exists;
// otherwise all interpreters whose names start with the project name
// are used. fromConfig reports which of the two was returned.
func (e *Engine) DefaultInterpreters(ctx context.Context) (ids []int64, fromConfig bool, err error) {
	if e.Config.DefaultInterpreters != nil {
		ids, err := e.configuredInterpreters(ctx)
		if err == nil {
			return ids, true, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, false, err
		}
	}
	ins, err := e.ProjectInterpreters(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, in := range ins {
		ids = append(ids, in.ID)
	}
	return ids, false, nil
}

func (e *Engine) configuredInterpreters(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(e.Config.DefaultInterpreters))
	for _, id := range e.Config.DefaultInterpreters {
		if _, err := e.Store.Interpreter(ctx, id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ProjectInterpreters returns the interpreters whose names start with
// the project name.
func (e *Engine) ProjectInterpreters(ctx context.Context) ([]*store.Interpreter, error) {
	all, err := e.Store.Interpreters(ctx)
	if err != nil {
		return nil, err
	}
	var ins []*store.Interpreter
	for _, in := range all {
		if strings.HasPrefix(in.Name, e.Config.Project) {
			ins = append(ins, in)
		}
	}
	return ins, nil
}

// BenchmarkSelector resolves a requested benchmark: an empty string or
// "grid" selects AllBenchmarks, a number is taken as a benchmark id,
// and anything else must be the name of a benchmark.
func (e *Engine) BenchmarkSelector(ctx context.Context, requested string) (int64, error) {
	if requested == "" || requested == "grid" {
		return AllBenchmarks, nil
	}
	if id, err := strconv.ParseInt(requested, 10, 64); err == nil {
		return id, nil
	}
	b, err := e.Store.BenchmarkByName(ctx, requested)
	if err != nil {
		return 0, err
	}
	return b.ID, nil
}
