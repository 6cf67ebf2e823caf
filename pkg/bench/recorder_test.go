package bench

import (
	"testing"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
)

type captureWriter struct {
	written []results.OperationResult
	calls   int
}

func (w *captureWriter) Write(rs []results.OperationResult) error {
	w.written = rs
	w.calls++
	return nil
}

func TestRecorderAssignsIterationNumbers(t *testing.T) {
	rec := NewRecorder(4)
	for i := 0; i < 4; i++ {
		if got := rec.NextIteration(); got != int64(i) {
			t.Fatalf("NextIteration = %d, want %d", got, i)
		}
		// Deliberately wrong incoming number: the recorder owns the
		// sequence.
		rec.Record(results.OperationResult{IterationNumber: 99, OpType: results.OpRead})
	}
	for i, r := range rec.Results() {
		if r.IterationNumber != int64(i) {
			t.Errorf("record %d has IterationNumber %d", i, r.IterationNumber)
		}
	}
}

func TestRecorderFinalize(t *testing.T) {
	rec := NewRecorder(2)
	rec.Record(results.OperationResult{OpType: results.OpRead})
	rec.Record(results.OperationResult{OpType: results.OpCommit})

	w := &captureWriter{}
	if err := rec.Finalize(w); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if w.calls != 1 || len(w.written) != 2 {
		t.Errorf("writer got %d calls, %d records", w.calls, len(w.written))
	}
}

func TestRecorderFinalizeEmpty(t *testing.T) {
	if err := NewRecorder(0).Finalize(&captureWriter{}); err == nil {
		t.Error("Finalize on empty recorder did not fail")
	}
}
