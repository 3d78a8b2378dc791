// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/net/context"
	"golang.org/x/speedcenter/store"
)

// A Baseline is an (interpreter, revision) pair that results can be
// compared against.
type Baseline struct {
	Interpreter int64 `json:"interpreter"`
	// Name is the display name: the interpreter name, its
	// compile options and the revision tag or number.
	Name      string `json:"name"`
	ShortName string `json:"shortname"`
	Revision  int64  `json:"revision"`
	Project   string `json:"project"`
}

func newBaseline(in *store.Interpreter, rev *store.Revision) Baseline {
	label := rev.Tag
	if label == "" {
		label = strconv.FormatInt(rev.Number, 10)
	}
	return Baseline{
		Interpreter: in.ID,
		Name:        in.Name + " " + in.COptions + " " + label,
		ShortName:   in.Name,
		Revision:    rev.Number,
		Project:     rev.Project,
	}
}

// Baselines returns the baselines available for comparison, with the
// configured default baseline first. Entries of the configured
// baseline list that name a missing interpreter or revision are
// skipped. Only store failures are reported as errors.
func (e *Engine) Baselines(ctx context.Context) ([]Baseline, error) {
	var (
		list []Baseline
		err  error
	)
	if e.Config.Baselines != nil {
		list, err = e.configuredBaselines(ctx)
	} else {
		list, err = e.taggedBaselines(ctx)
	}
	if err != nil {
		return nil, err
	}
	return promoteDefault(list, e.Config.DefaultBaseline), nil
}

func (e *Engine) configuredBaselines(ctx context.Context) ([]Baseline, error) {
	var list []Baseline
	seen := make(map[baselineKey]bool)
	for _, ref := range e.Config.Baselines {
		in, err := e.Store.Interpreter(ctx, ref.Interpreter)
		if errors.Is(err, store.ErrNotFound) {
			continue
		} else if err != nil {
			return nil, err
		}
		revs, err := e.Store.RevisionsByNumber(ctx, ref.Revision)
		if err != nil {
			return nil, err
		}
		rev := revisionForInterpreter(revs, in)
		if rev == nil {
			continue
		}
		list = appendBaseline(list, seen, newBaseline(in, rev))
	}
	return list, nil
}

func (e *Engine) taggedBaselines(ctx context.Context) ([]Baseline, error) {
	revs, err := e.Store.TaggedRevisions(ctx)
	if err != nil {
		return nil, err
	}
	ins, err := e.Store.Interpreters(ctx)
	if err != nil {
		return nil, err
	}
	var list []Baseline
	seen := make(map[baselineKey]bool)
	for _, rev := range revs {
		for _, in := range ins {
			if buildsProject(in, rev.Project) {
				list = appendBaseline(list, seen, newBaseline(in, rev))
			}
		}
	}
	return list, nil
}

type baselineKey struct {
	interpreter int64
	revision    int64
	project     string
}

func appendBaseline(list []Baseline, seen map[baselineKey]bool, b Baseline) []Baseline {
	k := baselineKey{b.Interpreter, b.Revision, b.Project}
	if seen[k] {
		return list
	}
	seen[k] = true
	return append(list, b)
}

// revisionForInterpreter picks the revision a configured baseline
// means when several projects share a revision number: the last one
// whose project name occurs in the interpreter's name. A single
// revision is used as is. It returns nil if there is no match.
//
// The match is ambiguous when one interpreter's name contains more
// than one project name; the last such revision wins.
func revisionForInterpreter(revs []*store.Revision, in *store.Interpreter) *store.Revision {
	switch len(revs) {
	case 0:
		return nil
	case 1:
		return revs[0]
	}
	var match *store.Revision
	for _, r := range revs {
		if strings.Contains(in.Name, r.Project) {
			match = r
		}
	}
	return match
}

// buildsProject reports whether the interpreter is a build of
// project, which is the case when its name occurs in the project name.
func buildsProject(in *store.Interpreter, project string) bool {
	return strings.Contains(project, in.Name)
}

// promoteDefault moves the first baseline matching def to the front.
func promoteDefault(list []Baseline, def *BaselineRef) []Baseline {
	if def == nil {
		return list
	}
	for i, b := range list {
		if b.Interpreter == def.Interpreter && b.Revision == def.Revision {
			copy(list[1:i+1], list[:i])
			list[0] = b
			break
		}
	}
	return list
}
