// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"fmt"
	"sort"

	"golang.org/x/net/context"
	"golang.org/x/speedcenter/store"
)

// fakeStore is an in-memory Store for tests.
type fakeStore struct {
	revisions    []*store.Revision
	interpreters []*store.Interpreter
	benchmarks   []*store.Benchmark
	environments []*store.Environment
	results      []*store.Result
}

func (s *fakeStore) addRevision(number int64, project, tag string) *store.Revision {
	r := &store.Revision{ID: int64(len(s.revisions) + 1), Number: number, Project: project, Tag: tag}
	s.revisions = append(s.revisions, r)
	return r
}

func (s *fakeStore) addInterpreter(name, coptions string) *store.Interpreter {
	in := &store.Interpreter{ID: int64(len(s.interpreters) + 1), Name: name, COptions: coptions}
	s.interpreters = append(s.interpreters, in)
	return in
}

func (s *fakeStore) addBenchmark(name string) *store.Benchmark {
	b := &store.Benchmark{ID: int64(len(s.benchmarks) + 1), Name: name, Description: name + " benchmark"}
	s.benchmarks = append(s.benchmarks, b)
	return b
}

func (s *fakeStore) addEnvironment(name string) *store.Environment {
	e := &store.Environment{ID: int64(len(s.environments) + 1), Name: name}
	s.environments = append(s.environments, e)
	return e
}

// addResult records value for the revision number of project, which
// must already exist.
func (s *fakeStore) addResult(number int64, project string, in *store.Interpreter, b *store.Benchmark, value float64) {
	var rev *store.Revision
	for _, r := range s.revisions {
		if r.Number == number && r.Project == project {
			rev = r
		}
	}
	if rev == nil {
		panic(fmt.Sprintf("no revision %d of %q", number, project))
	}
	s.results = append(s.results, &store.Result{
		ID:             int64(len(s.results) + 1),
		Value:          value,
		RevisionID:     rev.ID,
		RevisionNumber: rev.Number,
		Project:        rev.Project,
		InterpreterID:  in.ID,
		BenchmarkID:    b.ID,
		EnvironmentID:  1,
	})
}

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), store.ErrNotFound)
}

func (s *fakeStore) RecentRevisions(_ context.Context, project string, upTo int64, n int) ([]*store.Revision, error) {
	var revs []*store.Revision
	for _, r := range s.revisions {
		if r.Project == project && r.Number <= upTo {
			revs = append(revs, r)
		}
	}
	sort.SliceStable(revs, func(i, j int) bool { return revs[i].Number > revs[j].Number })
	if len(revs) > n {
		revs = revs[:n]
	}
	return revs, nil
}

func (s *fakeStore) RevisionsByNumber(_ context.Context, number int64) ([]*store.Revision, error) {
	var revs []*store.Revision
	for _, r := range s.revisions {
		if r.Number == number {
			revs = append(revs, r)
		}
	}
	return revs, nil
}

func (s *fakeStore) TaggedRevisions(context.Context) ([]*store.Revision, error) {
	var revs []*store.Revision
	for _, r := range s.revisions {
		if r.Tag != "" {
			revs = append(revs, r)
		}
	}
	return revs, nil
}

func (s *fakeStore) Revision(_ context.Context, number int64, project string) (*store.Revision, error) {
	for _, r := range s.revisions {
		if r.Number == number && r.Project == project {
			return r, nil
		}
	}
	return nil, notFound("revision %d of %q", number, project)
}

func (s *fakeStore) Interpreter(_ context.Context, id int64) (*store.Interpreter, error) {
	for _, in := range s.interpreters {
		if in.ID == id {
			return in, nil
		}
	}
	return nil, notFound("interpreter %d", id)
}

func (s *fakeStore) Interpreters(context.Context) ([]*store.Interpreter, error) {
	return append([]*store.Interpreter(nil), s.interpreters...), nil
}

func (s *fakeStore) Benchmark(_ context.Context, id int64) (*store.Benchmark, error) {
	for _, b := range s.benchmarks {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, notFound("benchmark %d", id)
}

func (s *fakeStore) BenchmarkByName(_ context.Context, name string) (*store.Benchmark, error) {
	for _, b := range s.benchmarks {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, notFound("benchmark %q", name)
}

func (s *fakeStore) Benchmarks(context.Context) ([]*store.Benchmark, error) {
	return append([]*store.Benchmark(nil), s.benchmarks...), nil
}

func (s *fakeStore) Environments(context.Context) ([]*store.Environment, error) {
	return append([]*store.Environment(nil), s.environments...), nil
}

func (s *fakeStore) EnvironmentByName(_ context.Context, name string) (*store.Environment, error) {
	for _, e := range s.environments {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, notFound("environment %q", name)
}

func (s *fakeStore) Results(_ context.Context, q store.ResultQuery) ([]*store.Result, error) {
	var out []*store.Result
	for _, r := range s.results {
		if q.Project != "" && r.Project != q.Project ||
			q.Interpreter != 0 && r.InterpreterID != q.Interpreter ||
			q.Benchmark != 0 && r.BenchmarkID != q.Benchmark ||
			q.Environment != 0 && r.EnvironmentID != q.Environment {
			continue
		}
		if len(q.Revisions) > 0 {
			found := false
			for _, n := range q.Revisions {
				if r.RevisionNumber == n {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RevisionNumber > out[j].RevisionNumber })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}
