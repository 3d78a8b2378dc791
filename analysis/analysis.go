// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analysis computes comparative performance figures across
// the revisions of a project: the change of each benchmark since the
// previous revision, its trend against a moving average, its ratio to
// a baseline build, and the timelines behind them.
//
// An Engine reads from a Store and never writes to it. Each call
// works only with the data it queries, so an Engine may serve any
// number of requests concurrently.
package analysis

import (
	"encoding/json"

	"golang.org/x/net/context"
	"golang.org/x/speedcenter/store"
)

// A Store answers the queries the engine needs. It is implemented by
// *db.DB. Lookups of a single record return an error wrapping
// store.ErrNotFound when it does not exist; list queries return an
// empty slice.
type Store interface {
	// RecentRevisions returns at most n revisions of project
	// numbered upTo or lower, newest first.
	RecentRevisions(ctx context.Context, project string, upTo int64, n int) ([]*store.Revision, error)
	// RevisionsByNumber returns the revisions of every project
	// with the given number.
	RevisionsByNumber(ctx context.Context, number int64) ([]*store.Revision, error)
	// TaggedRevisions returns every revision with a tag.
	TaggedRevisions(ctx context.Context) ([]*store.Revision, error)
	Revision(ctx context.Context, number int64, project string) (*store.Revision, error)

	Interpreter(ctx context.Context, id int64) (*store.Interpreter, error)
	Interpreters(ctx context.Context) ([]*store.Interpreter, error)

	Benchmark(ctx context.Context, id int64) (*store.Benchmark, error)
	BenchmarkByName(ctx context.Context, name string) (*store.Benchmark, error)
	Benchmarks(ctx context.Context) ([]*store.Benchmark, error)

	Environments(ctx context.Context) ([]*store.Environment, error)
	EnvironmentByName(ctx context.Context, name string) (*store.Environment, error)

	Results(ctx context.Context, q store.ResultQuery) ([]*store.Result, error)
}

// A BaselineRef names a baseline by interpreter id and revision number.
type BaselineRef struct {
	Interpreter int64 `json:"interpreter"`
	Revision    int64 `json:"revision"`
}

// Config holds the site settings the engine resolves defaults from.
// A Config must not be modified once it has been given to an Engine.
type Config struct {
	// Project is the project whose revisions are analyzed.
	Project string

	// Baselines lists the baselines offered for comparison. If it
	// is nil, every tagged revision is offered with each
	// interpreter that builds its project.
	Baselines []BaselineRef

	// DefaultBaseline is moved to the front of the baseline list
	// if present.
	DefaultBaseline *BaselineRef

	// DefaultEnvironment is the name of the preferred environment.
	DefaultEnvironment string

	// DefaultInterpreters lists the ids of the interpreters shown
	// by default. If nil, or if any id does not exist, the
	// interpreters named after Project are used.
	DefaultInterpreters []int64
}

// An Engine computes overviews and timelines.
type Engine struct {
	Store  Store
	Config Config
}

// NullFloat is a figure that may be missing because there was no data
// to compute it from. Valid distinguishes a missing figure from a
// computed zero. It encodes to JSON as a number or null.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat holding f.
func Float(f float64) NullFloat {
	return NullFloat{Float64: f, Valid: true}
}

// MarshalJSON implements json.Marshaler.
func (f NullFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Float64)
}
