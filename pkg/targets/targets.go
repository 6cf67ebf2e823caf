// Package targets defines the backend capability interface implemented
// once per supported database product.
package targets

import (
	"context"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/data"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Backends supported for workload execution
const (
	FormatPostgres = "postgres"
	FormatNeon     = "neon"
	FormatDolt     = "dolt"
)

func SupportedFormats() []string {
	return []string{
		FormatPostgres,
		FormatNeon,
		FormatDolt,
	}
}

// Backend is the capability set every target database implements. Each
// operation method is a single logical round trip: its wall-clock
// duration is exactly what the executor measures, so implementations
// must not retry, pool, or back off inside these calls.
type Backend interface {
	// Connect establishes the session. Reconnects during a run happen
	// only through ConnectBranch.
	Connect(ctx context.Context) error
	Disconnect() error

	// Read executes a result-set query and returns the number of rows
	// fetched.
	Read(ctx context.Context, sql string, args ...interface{}) (int64, error)
	// Insert executes a row insert and returns rows affected.
	Insert(ctx context.Context, sql string, args ...interface{}) (int64, error)
	// Update executes a single-key or range update and returns rows
	// affected.
	Update(ctx context.Context, sql string, args ...interface{}) (int64, error)

	// CreateBranch creates a named copy-on-write branch of the current
	// database state.
	CreateBranch(ctx context.Context, name string) error
	// ConnectBranch switches the session to an existing branch. The
	// branch mechanics differ per backend (schema fork, connection
	// string swap, checkout) but the semantics are identical.
	ConnectBranch(ctx context.Context, name string) error
	// Commit flushes any open transaction.
	Commit(ctx context.Context) error

	// Catalog introspects the connected database's table definitions,
	// including primary keys and row counts.
	Catalog(ctx context.Context) (*data.Catalog, error)
	// DBSize reports the current database size in bytes.
	DBSize(ctx context.Context) (int64, error)
}

// ImplementedTarget is the constructor surface each backend package
// exposes to the CLI layer.
type ImplementedTarget interface {
	Name() string
	// TargetSpecificFlags registers the backend's connection flags
	// under the given prefix.
	TargetSpecificFlags(flagPrefix string, fs *pflag.FlagSet)
	// NewBackend builds a Backend from the resolved configuration.
	NewBackend(v *viper.Viper) (Backend, error)
}
