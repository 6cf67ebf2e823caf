package bench

import (
	"fmt"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
)

// ValidationError reports a malformed or contradictory run
// configuration. Fatal, surfaced before any operation runs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + e.Msg
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// BranchTransitionError reports a generated branch operation that
// violates the branch state machine. It indicates a config/backend
// mismatch, so it is fatal to the run.
type BranchTransitionError struct {
	Op   results.OpType
	From BranchPhase
}

func (e *BranchTransitionError) Error() string {
	return fmt.Sprintf("invalid branch transition: %s from phase %s", e.Op, e.From)
}

// ExecutionError wraps a single failed backend call. The failed
// operation is still recorded (latency 0) and the run continues;
// operation failures are expected noise in a benchmark.
type ExecutionError struct {
	Op        results.OpType
	Iteration int64
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("operation %d (%s) failed: %v", e.Iteration, e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// ConnectionError reports a failure to establish or re-establish the
// backend session at setup or finalization. Fatal.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "backend connection failed: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
