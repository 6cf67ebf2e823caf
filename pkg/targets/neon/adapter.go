// Package neon implements the backend capability set for Neon, where a
// branch is a copy-on-write fork managed by the control plane and
// connecting to one means swapping the connection string.
package neon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets/postgres"
)

const defaultRole = "neondb_owner"

// Opts configure the Neon backend. APIKey is an opaque credential; the
// CLI layer sources it from the environment.
type Opts struct {
	ProjectID string `mapstructure:"project-id" yaml:"project-id"`
	BranchID  string `mapstructure:"branch-id" yaml:"branch-id"`
	DBName    string `mapstructure:"db-name" yaml:"db-name"`
	Role      string `mapstructure:"role" yaml:"role"`
	BaseURL   string `mapstructure:"api-base-url" yaml:"api-base-url"`

	APIKey     string `mapstructure:"-" yaml:"-"`
	AutoCommit bool   `mapstructure:"autocommit" yaml:"autocommit"`
}

type cachedBranch struct {
	id  string
	uri string
}

// Adapter reuses the generic Postgres session for data-plane operations
// and drives branch lifecycle through the Neon API.
type Adapter struct {
	*postgres.Adapter

	opts     *Opts
	api      *APIClient
	log      zerolog.Logger
	branches map[string]cachedBranch
	branchID string // currently connected branch
}

func NewAdapter(opts *Opts, api *APIClient, log zerolog.Logger) *Adapter {
	if opts.Role == "" {
		opts.Role = defaultRole
	}
	return &Adapter{
		Adapter:  postgres.NewAdapterDSN("pgx", "", opts.AutoCommit, log.With().Str("backend", "neon").Logger()),
		opts:     opts,
		api:      api,
		log:      log.With().Str("backend", "neon").Logger(),
		branches: make(map[string]cachedBranch),
		branchID: opts.BranchID,
	}
}

func (a *Adapter) Connect(ctx context.Context) error {
	uri, err := a.api.ConnectionURI(a.opts.ProjectID, a.branchID, a.opts.DBName, a.opts.Role)
	if err != nil {
		return errors.Wrap(err, "resolve connection uri")
	}
	a.SetDSN("pgx", uri)
	return a.Adapter.Connect(ctx)
}

// CreateBranch asks the control plane for a new branch forked from the
// currently connected one.
func (a *Adapter) CreateBranch(ctx context.Context, name string) error {
	id, err := a.api.CreateBranch(a.opts.ProjectID, name, a.branchID)
	if err != nil {
		return errors.Wrapf(err, "create branch %s", name)
	}
	a.branches[name] = cachedBranch{id: id}
	return nil
}

// ConnectBranch swaps the session to the named branch. The connection
// URI is cached after the first lookup so repeat connects avoid the
// extra control-plane round trip.
func (a *Adapter) ConnectBranch(ctx context.Context, name string) error {
	cached, ok := a.branches[name]
	if !ok {
		all, err := a.api.Branches(a.opts.ProjectID)
		if err != nil {
			return errors.Wrapf(err, "list branches")
		}
		info, ok := all[name]
		if !ok {
			return errors.Errorf("branch %q does not exist", name)
		}
		cached = cachedBranch{id: info.ID}
	}
	if cached.uri == "" {
		uri, err := a.api.ConnectionURI(a.opts.ProjectID, cached.id, a.opts.DBName, a.opts.Role)
		if err != nil {
			return errors.Wrapf(err, "connection uri for branch %s", name)
		}
		cached.uri = uri
	}
	a.branches[name] = cached

	if err := a.Commit(ctx); err != nil {
		return err
	}
	if err := a.Disconnect(); err != nil {
		return errors.Wrap(err, "close previous connection")
	}
	a.SetDSN("pgx", cached.uri)
	if err := a.Adapter.Connect(ctx); err != nil {
		return err
	}
	a.branchID = cached.id
	return nil
}
