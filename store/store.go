// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store defines the records kept by the speed center: the
// revisions, interpreters, benchmarks and environments that results
// are measured against, and the results themselves.
package store

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a referenced revision,
	// interpreter, benchmark or environment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBadInput is returned when a submission or request is
	// missing a mandatory field or contains a malformed one.
	ErrBadInput = errors.New("bad input")

	// ErrNoData is returned when there is nothing to analyze,
	// for example when a project has no revisions or no
	// environment has been configured.
	ErrNoData = errors.New("no data")
)

// A Revision is a numbered snapshot of a project's source code.
// Revisions are unique by (Number, Project) and are ordered by
// Number within a project.
type Revision struct {
	ID      int64  `json:"id"`
	Number  int64  `json:"number"`
	Project string `json:"project"`
	// Tag is a human-readable label, such as a release name.
	// It is empty for untagged revisions.
	Tag  string    `json:"tag,omitempty"`
	Date time.Time `json:"date"`
}

// An Interpreter is a build of an executable under benchmark,
// identified by its name and compile options.
type Interpreter struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	COptions string `json:"coptions"`
}

// A Benchmark is a named performance test producing a scalar value.
type Benchmark struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Units        string `json:"units"`
	LessIsBetter bool   `json:"lessisbetter"`
}

// An Environment is a host on which benchmarks are run.
type Environment struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// A Result is a single measurement of a benchmark for one
// revision, interpreter and environment. Results are never
// modified after they are created.
type Result struct {
	ID    int64   `json:"id"`
	Value float64 `json:"value"`
	// StdDev, Min and Max are optional statistics attached
	// when the result was submitted.
	StdDev *float64  `json:"std_dev,omitempty"`
	Min    *float64  `json:"min,omitempty"`
	Max    *float64  `json:"max,omitempty"`
	Date   time.Time `json:"date"`

	RevisionID     int64  `json:"revision_id"`
	RevisionNumber int64  `json:"revision"`
	Project        string `json:"project"`
	InterpreterID  int64  `json:"interpreter"`
	BenchmarkID    int64  `json:"benchmark"`
	EnvironmentID  int64  `json:"environment"`
}

// A ResultQuery selects results. Zero-valued fields do not restrict
// the query. Matching results are ordered by revision number,
// newest first, and then by creation order.
type ResultQuery struct {
	// Project restricts results to revisions of this project.
	Project string
	// Revisions restricts results to these revision numbers.
	Revisions []int64

	Interpreter int64
	Benchmark   int64
	Environment int64

	// Limit is the maximum number of results to return.
	Limit int
}
