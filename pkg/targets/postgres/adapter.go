// Package postgres implements the backend capability set for a generic
// Postgres-compatible database. Branching is modeled as a schema fork:
// CREATE DATABASE <branch> TEMPLATE <current>, with branch connect
// swapping the session to the forked database.
package postgres

import (
	"context"
	"strings"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/sqlparse"
)

// Adapter owns the live session. It is not safe for concurrent use; the
// run controller drives it from a single goroutine.
type Adapter struct {
	opts *Opts
	log  zerolog.Logger

	db        *sqlx.DB
	tx        *sqlx.Tx
	currentDB string

	// driver/dsn override the options-built connect string; used by
	// backends that obtain per-branch connection URIs externally.
	driver string
	dsn    string
}

func NewAdapter(opts *Opts, log zerolog.Logger) *Adapter {
	return &Adapter{
		opts:      opts,
		log:       log.With().Str("backend", "postgres").Logger(),
		currentDB: opts.DBName,
	}
}

// NewAdapterDSN builds an adapter around an explicit connection string
// instead of host/port options.
func NewAdapterDSN(driver, dsn string, autocommit bool, log zerolog.Logger) *Adapter {
	return &Adapter{
		opts:   &Opts{AutoCommit: autocommit},
		log:    log,
		driver: driver,
		dsn:    dsn,
	}
}

// SetDSN repoints the adapter at a different connection string. The
// caller is responsible for reconnecting.
func (a *Adapter) SetDSN(driver, dsn string) {
	a.driver = driver
	a.dsn = dsn
}

func (a *Adapter) connectString() (string, string) {
	if a.dsn != "" {
		return a.driver, a.dsn
	}
	return a.opts.Driver(), a.opts.GetConnectString(a.currentDB)
}

func (a *Adapter) Connect(ctx context.Context) error {
	driver, dsn := a.connectString()
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return errors.Wrapf(err, "connect to %s", a.currentDB)
	}
	// The benchmark owns exactly one session; pooling would hide
	// reconnects inside timed regions.
	db.SetMaxOpenConns(1)
	a.db = db
	a.log.Debug().Str("dbname", a.currentDB).Msg("connected")
	return nil
}

func (a *Adapter) Disconnect() error {
	if a.db == nil {
		return nil
	}
	if a.tx != nil {
		_ = a.tx.Rollback()
		a.tx = nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// stmt returns the execution handle for workload statements, lazily
// opening a transaction when autocommit is off.
func (a *Adapter) stmt(ctx context.Context) (sqlx.ExtContext, error) {
	if a.db == nil {
		return nil, errors.New("database connection is not established")
	}
	if a.opts.AutoCommit {
		return a.db, nil
	}
	if a.tx == nil {
		tx, err := a.db.BeginTxx(ctx, nil)
		if err != nil {
			return nil, errors.Wrap(err, "begin transaction")
		}
		a.tx = tx
	}
	return a.tx, nil
}

func (a *Adapter) Read(ctx context.Context, query string, args ...interface{}) (int64, error) {
	q, err := a.stmt(ctx)
	if err != nil {
		return 0, err
	}
	rows, err := q.QueryxContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "read query: %s", query)
	}
	defer rows.Close()
	var n int64
	for rows.Next() {
		n++
	}
	if err := rows.Err(); err != nil {
		return n, errors.Wrapf(err, "read rows: %s", query)
	}
	return n, nil
}

func (a *Adapter) Insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	return a.exec(ctx, query, args...)
}

func (a *Adapter) Update(ctx context.Context, query string, args ...interface{}) (int64, error) {
	return a.exec(ctx, query, args...)
}

func (a *Adapter) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	q, err := a.stmt(ctx)
	if err != nil {
		return 0, err
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "exec: %s", query)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}
	return n, nil
}

// CreateBranch forks the current database. Any open transaction is
// flushed first so the fork sees all prior writes; CREATE DATABASE
// cannot run inside a transaction anyway.
func (a *Adapter) CreateBranch(ctx context.Context, name string) error {
	if err := a.Commit(ctx); err != nil {
		return err
	}
	stmt := "CREATE DATABASE " + pq.QuoteIdentifier(name) + " TEMPLATE " + pq.QuoteIdentifier(a.currentDB)
	if _, err := a.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrapf(err, "create branch %s", name)
	}
	return nil
}

// ConnectBranch swaps the session over to the forked database.
func (a *Adapter) ConnectBranch(ctx context.Context, name string) error {
	if err := a.Commit(ctx); err != nil {
		return err
	}
	if err := a.db.Close(); err != nil {
		return errors.Wrap(err, "close connection")
	}
	a.db = nil
	a.currentDB = name
	return a.Connect(ctx)
}

func (a *Adapter) Commit(ctx context.Context) error {
	if a.tx == nil {
		return nil
	}
	err := a.tx.Commit()
	a.tx = nil
	if err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

// ExecScript splits a DDL script on semicolons and executes each
// statement, for schema bootstrap outside the timed loop.
func (a *Adapter) ExecScript(ctx context.Context, script string) error {
	for _, raw := range strings.Split(script, ";") {
		stmt := strings.TrimSpace(raw)
		if stmt == "" {
			continue
		}
		if sqlparse.IsRead(stmt) {
			if _, err := a.Read(ctx, stmt); err != nil {
				return err
			}
			continue
		}
		if _, err := a.exec(ctx, stmt); err != nil {
			return err
		}
	}
	return a.Commit(ctx)
}
