package postgres

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
)

const (
	pgxDriver = "pgx"      // default driver
	pqDriver  = "postgres" // used when forcing text format
)

// Opts are the connection options for a Postgres-compatible backend.
type Opts struct {
	PostgresConnect string `mapstructure:"postgres" yaml:"postgres"`
	Host            string `mapstructure:"host" yaml:"host"`
	Port            string `mapstructure:"port" yaml:"port"`
	User            string `mapstructure:"user" yaml:"user"`
	Pass            string `mapstructure:"pass" yaml:"pass"`
	DBName          string `mapstructure:"db-name" yaml:"db-name"`
	ForceTextFormat bool   `mapstructure:"force-text-format" yaml:"force-text-format"`

	// AutoCommit selects session autocommit; when false every
	// statement joins a transaction flushed only by COMMIT operations.
	AutoCommit bool `mapstructure:"autocommit" yaml:"autocommit"`
}

// AddToFlagSet registers the connection flags under the given prefix.
func (o *Opts) AddToFlagSet(prefix string, fs *pflag.FlagSet) {
	fs.String(prefix+"postgres", "sslmode=disable",
		"String of additional PostgreSQL connection parameters, e.g., 'sslmode=disable'. Parameters for host and database will be ignored.")
	fs.String(prefix+"host", "localhost", "Hostname of the PostgreSQL instance")
	fs.String(prefix+"port", "5432", "Which port to connect to on the database host")
	fs.String(prefix+"user", "postgres", "User to connect to PostgreSQL as")
	fs.String(prefix+"pass", "", "Password for the user connecting to PostgreSQL (leave blank if not password protected)")
	fs.String(prefix+"db-name", "benchmark", "Name of the database to run operations against")
	fs.Bool(prefix+"force-text-format", false, "Send/receive data in text format")
}

// Driver returns the database/sql driver name the options select.
func (o *Opts) Driver() string {
	if o.ForceTextFormat {
		return pqDriver
	}
	return pgxDriver
}

// GetConnectString builds the connect string for the named database.
// User might be passing in host=hostname in the connect string out of
// habit which may override the resolved values. Same for dbname= and
// user=. This sanitizes that.
func (o *Opts) GetConnectString(dbName string) string {
	re := regexp.MustCompile(`(host|dbname|user)=\S*\b`)
	connectString := strings.TrimSpace(re.ReplaceAllString(o.PostgresConnect, ""))
	connectString = fmt.Sprintf("host=%s dbname=%s user=%s %s", o.Host, dbName, o.User, connectString)

	if len(o.Port) > 0 {
		connectString = fmt.Sprintf("%s port=%s", connectString, o.Port)
	}
	if len(o.Pass) > 0 {
		connectString = fmt.Sprintf("%s password=%s", connectString, o.Pass)
	}
	if o.ForceTextFormat {
		// we assume we're using pq driver
		connectString = fmt.Sprintf("%s disable_prepared_binary_result=yes binary_parameters=no", connectString)
	}

	return connectString
}
