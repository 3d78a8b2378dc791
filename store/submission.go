// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// SubmissionFields lists the form keys that every submission must
// carry with a non-empty value.
var SubmissionFields = []string{
	"revision_number",
	"revision_project",
	"interpreter_name",
	"interpreter_coptions",
	"benchmark_name",
	"environment",
	"result_value",
	"result_date",
}

// A Submission is one result reported by a benchmark runner,
// identifying everything the result belongs to by name.
type Submission struct {
	RevisionNumber  int64
	RevisionProject string
	// RevisionDate is the zero time if it was not submitted.
	RevisionDate time.Time

	InterpreterName     string
	InterpreterCOptions string

	BenchmarkName string
	// BenchmarkType, Units and LessIsBetter are optional benchmark
	// metadata; nil means the submission did not mention them.
	BenchmarkType *string
	Units         *string
	LessIsBetter  *bool

	Environment string

	Value  float64
	Date   time.Time
	StdDev *float64
	Min    *float64
	Max    *float64
}

// Validate reports whether s has every mandatory field set.
// The returned error wraps ErrBadInput.
func (s *Submission) Validate() error {
	for _, f := range []struct {
		key   string
		empty bool
	}{
		{"revision_project", s.RevisionProject == ""},
		{"interpreter_name", s.InterpreterName == ""},
		{"interpreter_coptions", s.InterpreterCOptions == ""},
		{"benchmark_name", s.BenchmarkName == ""},
		{"environment", s.Environment == ""},
		{"result_date", s.Date.IsZero()},
	} {
		if f.empty {
			return fmt.Errorf("%w: key %q empty in submission", ErrBadInput, f.key)
		}
	}
	return nil
}

// dateLayouts are the accepted formats for submitted dates.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseSubmission builds a Submission from form values. Every key in
// SubmissionFields must be present and non-empty, and every numeric
// or date field must parse; otherwise the returned error wraps
// ErrBadInput and nothing should be written.
func ParseSubmission(form url.Values) (*Submission, error) {
	for _, key := range SubmissionFields {
		v, ok := form[key]
		if !ok || len(v) == 0 {
			return nil, fmt.Errorf("%w: key %q missing from request", ErrBadInput, key)
		}
		if v[0] == "" {
			return nil, fmt.Errorf("%w: key %q empty in request", ErrBadInput, key)
		}
	}

	p := formParser{form: form}
	s := &Submission{
		RevisionNumber:      p.int("revision_number"),
		RevisionProject:     form.Get("revision_project"),
		InterpreterName:     form.Get("interpreter_name"),
		InterpreterCOptions: form.Get("interpreter_coptions"),
		BenchmarkName:       form.Get("benchmark_name"),
		Environment:         form.Get("environment"),
		Value:               p.float("result_value"),
		Date:                p.date("result_date"),
		BenchmarkType:       p.optString("benchmark_type"),
		Units:               p.optString("units"),
		LessIsBetter:        p.optBool("lessisbetter"),
		StdDev:              p.optFloat("std_dev"),
		Min:                 p.optFloat("min"),
		Max:                 p.optFloat("max"),
	}
	if form.Get("revision_date") != "" {
		s.RevisionDate = p.date("revision_date")
	}
	if p.err != nil {
		return nil, p.err
	}
	return s, nil
}

// formParser converts form values, remembering the first failure.
type formParser struct {
	form url.Values
	err  error
}

func (p *formParser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: key %q has invalid value %q: %v", ErrBadInput, key, value, err)
	}
}

func (p *formParser) int(key string) int64 {
	v := p.form.Get(key)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.fail(key, v, err)
	}
	return n
}

func (p *formParser) float(key string) float64 {
	v := p.form.Get(key)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
	}
	return f
}

func (p *formParser) date(key string) time.Time {
	v := p.form.Get(key)
	t, err := parseDate(v)
	if err != nil {
		p.fail(key, v, err)
	}
	return t
}

func (p *formParser) optString(key string) *string {
	if _, ok := p.form[key]; !ok {
		return nil
	}
	v := p.form.Get(key)
	return &v
}

func (p *formParser) optFloat(key string) *float64 {
	if _, ok := p.form[key]; !ok {
		return nil
	}
	f := p.float(key)
	return &f
}

func (p *formParser) optBool(key string) *bool {
	if _, ok := p.form[key]; !ok {
		return nil
	}
	v := p.form.Get(key)
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
	}
	return &b
}
