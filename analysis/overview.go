// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"
	"golang.org/x/net/context"
	"golang.org/x/speedcenter/store"
)

// An OverviewRequest selects the results summarized by Overview.
type OverviewRequest struct {
	Interpreter int64
	// Revision is the newest revision to consider.
	Revision int64
	// Trend is the number of revisions averaged for the trend,
	// not counting the latest two.
	Trend int
	// Baseline is the 1-based position in the baseline list of the
	// baseline to compare against, or 0 for none. A position past
	// the end of the list selects the first baseline.
	Baseline int
	// Environment restricts results to one environment if non-zero.
	Environment int64
}

// An Overview summarizes every benchmark at one revision.
type Overview struct {
	// Revision is the revision the results were measured at.
	Revision int64 `json:"revision"`
	// Baseline is the baseline compared against, if any.
	Baseline   *Baseline          `json:"baseline,omitempty"`
	Benchmarks []BenchmarkSummary `json:"benchmarks"`
	Totals     Totals             `json:"totals"`
}

// A BenchmarkSummary holds the latest result of a benchmark and how
// it compares to earlier revisions and the baseline.
type BenchmarkSummary struct {
	Benchmark   string  `json:"benchmark"`
	Description string  `json:"bench_description"`
	Result      float64 `json:"result"`
	// Change is the percent change from the previous revision.
	Change NullFloat `json:"change"`
	// Trend is the percent difference from the average of the
	// trend window.
	Trend NullFloat `json:"trend"`
	// Relative is the baseline result divided by Result.
	Relative NullFloat `json:"relative"`
}

// Totals are the average change and trend over all benchmarks, in percent.
type Totals struct {
	Change NullFloat `json:"change"`
	Trend  NullFloat `json:"trend"`
}

// Overview computes the summary table for one interpreter. It returns
// an error wrapping store.ErrBadInput if req names no interpreter, and
// one wrapping store.ErrNoData if the project has no revisions up to
// req.Revision. Benchmarks without a result at the latest revision are
// left out.
func (e *Engine) Overview(ctx context.Context, req OverviewRequest) (*Overview, error) {
	if req.Interpreter == 0 {
		return nil, fmt.Errorf("no interpreter selected: %w", store.ErrBadInput)
	}
	trend := req.Trend
	if trend <= 0 {
		trend = DefaultTrendWindow
	}
	revs, err := e.Revisions(ctx, req.Revision, trend+2)
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return nil, fmt.Errorf("no revisions of %q up to %d: %w", e.Config.Project, req.Revision, store.ErrNoData)
	}

	q := store.ResultQuery{
		Project:     e.Config.Project,
		Interpreter: req.Interpreter,
		Environment: req.Environment,
	}
	w := &window{}
	if w.latest, err = e.valuesAt(ctx, q, revs[:1]); err != nil {
		return nil, err
	}
	if len(revs) > 1 {
		if w.previous, err = e.valuesAt(ctx, q, revs[1:2]); err != nil {
			return nil, err
		}
		if w.past, err = e.valuesAt(ctx, q, revs[2:]); err != nil {
			return nil, err
		}
	}

	ov := &Overview{Revision: revs[0].Number}
	if req.Baseline > 0 {
		list, err := e.Baselines(ctx)
		if err != nil {
			return nil, err
		}
		if len(list) > 0 {
			i := req.Baseline - 1
			if i >= len(list) {
				i = 0
			}
			b := list[i]
			ov.Baseline = &b
			baseQ := store.ResultQuery{
				Project:     b.Project,
				Revisions:   []int64{b.Revision},
				Interpreter: b.Interpreter,
				Environment: req.Environment,
			}
			if w.baseline, err = e.firstValues(ctx, baseQ); err != nil {
				return nil, err
			}
		}
	}

	benchmarks, err := e.Store.Benchmarks(ctx)
	if err != nil {
		return nil, err
	}
	var acc ratios
	ov.Benchmarks = []BenchmarkSummary{}
	for _, b := range benchmarks {
		if s, ok := w.summarize(b, &acc); ok {
			ov.Benchmarks = append(ov.Benchmarks, s)
		}
	}
	ov.Totals = acc.totals()
	return ov, nil
}

// valuesAt returns, for each benchmark, the first result value at
// each of revs that has one, in the order of revs.
func (e *Engine) valuesAt(ctx context.Context, q store.ResultQuery, revs []*store.Revision) (map[int64][]float64, error) {
	values := make(map[int64][]float64)
	if len(revs) == 0 {
		return values, nil
	}
	for _, r := range revs {
		q.Revisions = append(q.Revisions, r.Number)
	}
	results, err := e.Store.Results(ctx, q)
	if err != nil {
		return nil, err
	}
	type key struct{ bench, rev int64 }
	seen := make(map[key]bool)
	for _, r := range results {
		k := key{r.BenchmarkID, r.RevisionNumber}
		if seen[k] {
			continue
		}
		seen[k] = true
		values[r.BenchmarkID] = append(values[r.BenchmarkID], r.Value)
	}
	return values, nil
}

// firstValues returns the first result value of each benchmark matching q.
func (e *Engine) firstValues(ctx context.Context, q store.ResultQuery) (map[int64]float64, error) {
	results, err := e.Store.Results(ctx, q)
	if err != nil {
		return nil, err
	}
	values := make(map[int64]float64)
	for _, r := range results {
		if _, ok := values[r.BenchmarkID]; !ok {
			values[r.BenchmarkID] = r.Value
		}
	}
	return values, nil
}

// A window holds result values by benchmark id: at the latest
// revision, at the one before it, over the trend window preceding
// both, and at the baseline. A nil baseline map means no baseline
// was selected.
type window struct {
	latest, previous, past map[int64][]float64
	baseline               map[int64]float64
}

// ratios collects the raw change and trend ratios of one overview.
type ratios struct {
	change, trend []float64
}

// summarize computes the figures for benchmark b, recording its
// ratios in acc. It reports false if b has no latest result.
func (w *window) summarize(b *store.Benchmark, acc *ratios) (BenchmarkSummary, bool) {
	latest := w.latest[b.ID]
	if len(latest) == 0 {
		return BenchmarkSummary{}, false
	}
	result := latest[0]
	s := BenchmarkSummary{
		Benchmark:   b.Name,
		Description: b.Description,
		Result:      result,
	}

	if prev := w.previous[b.ID]; len(prev) > 0 && prev[0] != 0 {
		s.Change = Float((result - prev[0]) * 100 / prev[0])
		acc.change = append(acc.change, result/prev[0])
	}

	if past := w.past[b.ID]; len(past) > 0 {
		if avg := stats.Mean(past); avg != 0 {
			s.Trend = Float((result - avg) * 100 / avg)
			acc.trend = append(acc.trend, result/avg)
		}
	}

	if base, ok := w.baseline[b.ID]; ok && result != 0 {
		s.Relative = Float(base / result)
	}
	return s, true
}

// totals averages the collected ratios and converts them to percentages.
// Relative ratios are not totaled.
func (acc *ratios) totals() Totals {
	return Totals{
		Change: percentOfMean(acc.change),
		Trend:  percentOfMean(acc.trend),
	}
}

func percentOfMean(xs []float64) NullFloat {
	if len(xs) == 0 {
		return NullFloat{}
	}
	return Float((stats.Mean(xs) - 1) * 100)
}
