package bench

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/data"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets"
)

// RunState is the controller's lifecycle position.
type RunState int

const (
	RunInit RunState = iota
	RunRunning
	RunFinalizing
	RunDone
	RunFailed
)

func (s RunState) String() string {
	switch s {
	case RunInit:
		return "INIT"
	case RunRunning:
		return "RUNNING"
	case RunFinalizing:
		return "FINALIZING"
	case RunDone:
		return "DONE"
	case RunFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// Runner owns one benchmark run end to end: setup, the sequential
// generate-execute-record loop, and finalization. Everything happens
// on the caller's goroutine; the backend session is touched by nothing
// else while a run is in flight.
type Runner struct {
	cfg     *RunConfig
	backend targets.Backend
	writer  results.Writer
	statsW  io.Writer
	log     zerolog.Logger

	state    RunState
	recorder *Recorder
}

// NewRunner wires a validated config to a backend. writer receives the
// full result set at finalization; statsW gets the human-readable
// latency summary.
func NewRunner(cfg *RunConfig, backend targets.Backend, writer results.Writer, statsW io.Writer, log zerolog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		backend:  backend,
		writer:   writer,
		statsW:   statsW,
		log:      log.With().Str("run_id", cfg.RunID).Logger(),
		recorder: NewRecorder(cfg.NumOps),
	}
}

// State reports the controller's current lifecycle position.
func (r *Runner) State() RunState {
	return r.state
}

// Results exposes the recorded operations, mainly for inspection after
// a run.
func (r *Runner) Results() []results.OperationResult {
	return r.recorder.Results()
}

// Run executes the whole benchmark. Individual operation failures are
// recorded and absorbed; validation, branch transition, and connection
// failures abort the run and leave it in the FAILED state.
func (r *Runner) Run(ctx context.Context) error {
	err := r.run(ctx)
	if err != nil {
		r.state = RunFailed
		return err
	}
	r.state = RunDone
	return nil
}

func (r *Runner) run(ctx context.Context) error {
	if r.state != RunInit {
		return errors.Errorf("run already started (state %s)", r.state)
	}

	gen, runCtx, err := r.setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.backend.Disconnect(); err != nil {
			r.log.Warn().Err(err).Msg("disconnect failed")
		}
	}()

	r.state = RunRunning
	exec := NewExecutor(r.backend, r.log)
	for i := 0; i < r.cfg.NumOps; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "run aborted between iterations")
		}

		op, err := gen.Next()
		if err != nil {
			return err
		}

		res, err := exec.Execute(ctx, runCtx, r.recorder.NextIteration(), op)
		if err != nil {
			var execErr *ExecutionError
			if !errors.As(err, &execErr) {
				return err
			}
			// Failed operations are expected benchmark noise: record
			// and move on.
		}
		r.recorder.Record(res)
	}

	r.state = RunFinalizing
	return r.finalize(ctx)
}

// setup connects, captures the run-constant context (catalog, DDL
// snapshots, database size), bootstraps the starting branch, and
// builds the generator. None of this is timed.
func (r *Runner) setup(ctx context.Context) (*Generator, *RunContext, error) {
	if err := r.backend.Connect(ctx); err != nil {
		return nil, nil, &ConnectionError{Err: err}
	}

	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	dbSize, err := r.backend.DBSize(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "capturing initial database size")
	}

	schemas := make(map[string]string, catalog.Len())
	for _, table := range catalog.Tables() {
		schemas[table.Name] = table.DDL()
	}
	runCtx := &RunContext{
		RunID:         r.cfg.RunID,
		Seed:          r.cfg.Seed,
		InitialDBSize: dbSize,
		Schemas:       schemas,
	}

	branch := NewBranchState(r.cfg.StartingBranch)
	if r.cfg.StartingBranch != "" {
		if err := r.backend.ConnectBranch(ctx, r.cfg.StartingBranch); err != nil {
			return nil, nil, &ConnectionError{Err: err}
		}
	}

	gen, err := NewGenerator(r.cfg, NewStream(r.cfg.Seed), catalog, branch)
	if err != nil {
		return nil, nil, err
	}

	r.log.Info().
		Str("backend", r.cfg.Backend).
		Int("num_ops", r.cfg.NumOps).
		Int64("seed", r.cfg.Seed).
		Int64("initial_db_size", dbSize).
		Int("tables", catalog.Len()).
		Msg("run starting")
	return gen, runCtx, nil
}

func (r *Runner) loadCatalog(ctx context.Context) (*data.Catalog, error) {
	if r.cfg.CatalogFile != "" {
		return data.LoadCatalogFile(r.cfg.CatalogFile)
	}
	catalog, err := r.backend.Catalog(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "introspecting catalog")
	}
	return catalog, nil
}

// finalize commits any trailing transaction, exports the result set,
// and prints the latency summary. The tail commit is untimed: it is
// session cleanup, not a benchmarked operation.
func (r *Runner) finalize(ctx context.Context) error {
	if !r.cfg.AutoCommit {
		if err := r.backend.Commit(ctx); err != nil {
			r.log.Warn().Err(err).Msg("tail commit failed")
		}
	}

	if err := r.recorder.Finalize(r.writer); err != nil {
		return err
	}

	if r.statsW != nil {
		ss := NewStatsSummary()
		for _, res := range r.recorder.Results() {
			ss.Observe(res)
		}
		if err := ss.Write(r.statsW); err != nil {
			return errors.Wrap(err, "writing latency summary")
		}
	}

	r.log.Info().Int("operations", r.recorder.Len()).Msg("run complete")
	return nil
}
