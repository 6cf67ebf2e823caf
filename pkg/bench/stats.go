package bench

import (
	"fmt"
	"io"
	"sort"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
)

// statGroup tracks the latency distribution for one operation type.
// The histogram stores microseconds; quantiles are reported in
// milliseconds.
type statGroup struct {
	hist   *hdrhistogram.Histogram
	count  int64
	errors int64
	sum    float64 // seconds
}

func newStatGroup() *statGroup {
	// 1us .. 30min at 3 significant figures.
	return &statGroup{hist: hdrhistogram.New(1, 30*60*1000*1000, 3)}
}

func (s *statGroup) record(latencySec float64) {
	s.count++
	s.sum += latencySec
	_ = s.hist.RecordValue(int64(latencySec * 1e6))
}

func (s *statGroup) mean() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count) * 1e3
}

func (s *statGroup) quantile(q float64) float64 {
	if s.count == 0 {
		return 0
	}
	return float64(s.hist.ValueAtQuantile(q)) / 1e3
}

// StatsSummary aggregates per-operation-type latency stats for the
// end-of-run report. Failed operations are counted but never recorded
// into the distribution: a hardcoded zero would drag every quantile
// down.
type StatsSummary struct {
	groups map[string]*statGroup
}

func NewStatsSummary() *StatsSummary {
	return &StatsSummary{groups: make(map[string]*statGroup)}
}

// Observe folds one result record into the summary.
func (ss *StatsSummary) Observe(res results.OperationResult) {
	label := res.OpType.String()
	g, ok := ss.groups[label]
	if !ok {
		g = newStatGroup()
		ss.groups[label] = g
	}
	if res.Err != "" {
		g.count++
		g.errors++
		return
	}
	g.record(res.Latency)
}

// Write prints the summary, one padded line per operation type in
// label order, all latencies in milliseconds.
func (ss *StatsSummary) Write(w io.Writer) error {
	labels := make([]string, 0, len(ss.groups))
	maxLen := 0
	for label := range ss.groups {
		labels = append(labels, label)
		if len(label) > maxLen {
			maxLen = len(label)
		}
	}
	sort.Strings(labels)

	for _, label := range labels {
		g := ss.groups[label]
		_, err := fmt.Fprintf(w, "%-*s: count %6d, errors %4d, min %8.2fms, mean %8.2fms, q50 %8.2fms, q95 %8.2fms, q99 %8.2fms, max %8.2fms\n",
			maxLen, label, g.count, g.errors,
			g.quantile(0), g.mean(), g.quantile(50), g.quantile(95), g.quantile(99), g.quantile(100))
		if err != nil {
			return err
		}
	}
	return nil
}
