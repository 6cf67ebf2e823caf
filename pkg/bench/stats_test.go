package bench

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
)

func TestStatsSummaryGroupsByOpType(t *testing.T) {
	ss := NewStatsSummary()
	ss.Observe(results.OperationResult{OpType: results.OpRead, Latency: 0.010})
	ss.Observe(results.OperationResult{OpType: results.OpRead, Latency: 0.030})
	ss.Observe(results.OperationResult{OpType: results.OpInsert, Latency: 0.005})

	var buf bytes.Buffer
	if err := ss.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	// Sorted label order.
	if !strings.HasPrefix(lines[0], "INSERT") || !strings.HasPrefix(strings.TrimSpace(lines[1]), "READ") {
		t.Errorf("unexpected label order:\n%s", out)
	}
	if !regexp.MustCompile(`READ\s*: count\s+2, errors\s+0,`).MatchString(lines[1]) {
		t.Errorf("READ count missing:\n%s", out)
	}
}

func TestStatsSummaryMean(t *testing.T) {
	ss := NewStatsSummary()
	ss.Observe(results.OperationResult{OpType: results.OpUpdate, Latency: 0.010})
	ss.Observe(results.OperationResult{OpType: results.OpUpdate, Latency: 0.020})

	g := ss.groups["UPDATE"]
	if got := g.mean(); got < 14.9 || got > 15.1 {
		t.Errorf("mean = %vms, want ~15ms", got)
	}
}

func TestStatsSummaryFailuresExcludedFromDistribution(t *testing.T) {
	ss := NewStatsSummary()
	ss.Observe(results.OperationResult{OpType: results.OpRead, Latency: 0.100})
	ss.Observe(results.OperationResult{OpType: results.OpRead, Latency: 0, Err: "connection reset"})

	g := ss.groups["READ"]
	if g.count != 2 || g.errors != 1 {
		t.Fatalf("count = %d, errors = %d, want 2 and 1", g.count, g.errors)
	}
	// The failed op's zero latency must not show up as the minimum.
	if min := g.quantile(0); min < 99 {
		t.Errorf("q0 = %vms, failure leaked into distribution", min)
	}
}
