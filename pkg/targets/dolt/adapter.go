// Package dolt implements the backend capability set for Doltgres,
// where branches are first-class and driven through DOLT_* SQL
// procedures on the same session.
package dolt

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets/postgres"
)

const commitMessage = "db-fork-bench checkpoint"

// Adapter reuses the generic Postgres session; only the branch
// lifecycle differs.
type Adapter struct {
	*postgres.Adapter

	log zerolog.Logger
}

func NewAdapter(opts *postgres.Opts, log zerolog.Logger) *Adapter {
	l := log.With().Str("backend", "dolt").Logger()
	return &Adapter{
		Adapter: postgres.NewAdapter(opts, l),
		log:     l,
	}
}

func (a *Adapter) CreateBranch(ctx context.Context, name string) error {
	if _, err := a.Read(ctx, "SELECT DOLT_BRANCH($1);", name); err != nil {
		return errors.Wrapf(err, "create branch %s", name)
	}
	return nil
}

// ConnectBranch checks out the branch on the existing session; no
// reconnect is needed.
func (a *Adapter) ConnectBranch(ctx context.Context, name string) error {
	if _, err := a.Read(ctx, "SELECT DOLT_CHECKOUT($1);", name); err != nil {
		return errors.Wrapf(err, "checkout branch %s", name)
	}
	return nil
}

// Commit flushes the SQL transaction and records a Dolt commit so the
// branch history captures the flushed writes.
func (a *Adapter) Commit(ctx context.Context) error {
	if err := a.Adapter.Commit(ctx); err != nil {
		return err
	}
	if _, err := a.Read(ctx, "SELECT DOLT_COMMIT('--allow-empty', '-Am', $1);", commitMessage); err != nil {
		return errors.Wrap(err, "dolt commit")
	}
	return nil
}
