package bench

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets"
)

// RunContext is the per-run constant data stamped onto every result
// record. It is captured once at setup, before the first operation.
type RunContext struct {
	RunID         string
	Seed          int64
	InitialDBSize int64
	// Schemas maps table name to its DDL snapshot, taken at run start.
	Schemas map[string]string
}

// Executor dispatches one materialized operation to the backend and
// times the call. The timed window covers exactly the backend call;
// SQL synthesis and result bookkeeping happen outside it.
type Executor struct {
	backend targets.Backend
	log     zerolog.Logger
}

func NewExecutor(backend targets.Backend, log zerolog.Logger) *Executor {
	return &Executor{backend: backend, log: log}
}

// Execute runs the operation and builds its result record. A failed
// backend call still yields a record, with latency exactly 0 and no
// keys touched, and the error comes back wrapped as an ExecutionError
// so the caller can keep the run going.
func (e *Executor) Execute(ctx context.Context, run *RunContext, iteration int64, op *Operation) (results.OperationResult, error) {
	res := results.OperationResult{
		RunID:           run.RunID,
		IterationNumber: iteration,
		OpType:          op.Kind,
		TableName:       op.Table,
		TableSchema:     run.Schemas[op.Table],
		InitialDBSize:   run.InitialDBSize,
		SQLQuery:        op.SQLWithArgs(),
		RandomSeed:      run.Seed,
	}

	start := time.Now()
	keys, err := e.dispatch(ctx, op)
	elapsed := time.Since(start)

	if err != nil {
		res.Latency = 0
		res.NumKeysTouched = 0
		res.Err = err.Error()
		e.log.Warn().
			Int64("iteration", iteration).
			Str("op", op.Kind.String()).
			Err(err).
			Msg("operation failed")
		return res, &ExecutionError{Op: op.Kind, Iteration: iteration, Err: err}
	}

	res.Latency = elapsed.Seconds()
	res.NumKeysTouched = keys
	return res, nil
}

func (e *Executor) dispatch(ctx context.Context, op *Operation) (int64, error) {
	switch op.Kind {
	case results.OpRead:
		return e.backend.Read(ctx, op.SQL, op.Args...)
	case results.OpInsert:
		return e.backend.Insert(ctx, op.SQL, op.Args...)
	case results.OpUpdate, results.OpRangeUpdate:
		return e.backend.Update(ctx, op.SQL, op.Args...)
	case results.OpBranchCreate:
		return 0, e.backend.CreateBranch(ctx, op.Branch)
	case results.OpBranchConnect:
		return 0, e.backend.ConnectBranch(ctx, op.Branch)
	case results.OpCommit:
		return 0, e.backend.Commit(ctx)
	}
	return 0, validationErrorf("unhandled operation kind %s", op.Kind)
}
