// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"math"

	"golang.org/x/net/context"
	"golang.org/x/speedcenter/store"
)

// Latest is the revision bound that admits every revision.
const Latest = math.MaxInt64

// Revisions returns at most n revisions of the configured project
// numbered upTo or lower, newest first. An empty result is not an
// error; callers report it as having no data.
func (e *Engine) Revisions(ctx context.Context, upTo int64, n int) ([]*store.Revision, error) {
	return selectRevisions(ctx, e.Store, e.Config.Project, upTo, n)
}

func selectRevisions(ctx context.Context, s Store, project string, upTo int64, n int) ([]*store.Revision, error) {
	if n <= 0 {
		return nil, nil
	}
	revs, err := s.RecentRevisions(ctx, project, upTo, n)
	if err != nil {
		return nil, err
	}
	// Hold the store to its contract.
	out := revs[:0]
	for _, r := range revs {
		if r.Project == project && r.Number <= upTo {
			out = append(out, r)
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
