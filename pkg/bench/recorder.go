package bench

import (
	"github.com/pkg/errors"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
)

// Recorder accumulates result records in iteration order. It is
// append-only: records are never mutated or dropped once added, and
// the iteration number is assigned here so the sequence is gapless
// from 0 regardless of operation failures.
type Recorder struct {
	records []results.OperationResult
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{records: make([]results.OperationResult, 0, capacity)}
}

// NextIteration returns the iteration number the next record will get.
func (r *Recorder) NextIteration() int64 {
	return int64(len(r.records))
}

// Record appends one result, stamping it with its sequence position.
func (r *Recorder) Record(res results.OperationResult) {
	res.IterationNumber = int64(len(r.records))
	r.records = append(r.records, res)
}

// Len returns the number of recorded operations.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Results returns the accumulated records in iteration order.
func (r *Recorder) Results() []results.OperationResult {
	return r.records
}

// Finalize flushes the full record set through the writer. It refuses
// an empty run: exporting zero records almost always means the run
// failed before its first operation.
func (r *Recorder) Finalize(w results.Writer) error {
	if len(r.records) == 0 {
		return errors.New("no results recorded")
	}
	return errors.Wrap(w.Write(r.records), "exporting results")
}
