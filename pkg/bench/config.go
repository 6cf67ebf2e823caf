package bench

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/HuangZiheng-o-O/db-fork-bench/internal/utils"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets"
)

// RangeUpdateConfig parameterizes RANGE_UPDATE operations.
type RangeUpdateConfig struct {
	// RangeSize is the number of consecutive keys one range update
	// touches, before clipping to table bounds.
	RangeSize int `mapstructure:"range-size" yaml:"range-size"`
}

// RunConfig is the validated, immutable input of one run. It is
// populated from the config file and flags before the controller
// initializes; nothing reads it until Validate has passed.
type RunConfig struct {
	RunID          string   `mapstructure:"run-id" yaml:"run-id"`
	Backend        string   `mapstructure:"backend" yaml:"backend"`
	Operations     []string `mapstructure:"operations" yaml:"operations"`
	NumOps         int      `mapstructure:"num-ops" yaml:"num-ops"`
	TableName      string   `mapstructure:"table-name" yaml:"table-name"`
	StartingBranch string   `mapstructure:"starting-branch" yaml:"starting-branch"`
	AutoCommit     bool     `mapstructure:"autocommit" yaml:"autocommit"`
	Seed           int64    `mapstructure:"seed" yaml:"seed"`

	RangeUpdate RangeUpdateConfig `mapstructure:"range-update" yaml:"range-update"`

	// CatalogFile selects an offline YAML catalog instead of live
	// introspection. Used for dry runs and tests.
	CatalogFile string `mapstructure:"catalog-file" yaml:"catalog-file"`
	OutputDir   string `mapstructure:"output-dir" yaml:"output-dir"`

	// parsed form of Operations, filled by Validate
	opKinds []results.OpType
}

// AddToFlagSet adds all the config options to a FlagSet, for easy use
// with CLIs.
func (c *RunConfig) AddToFlagSet(fs *pflag.FlagSet) {
	fs.String("run-id", "", "Unique ID of this run (default: a random UUID)")
	fs.String("backend", targets.FormatPostgres, "Backend to run against")
	fs.StringSlice("operations", nil, "Requested operation kinds; duplicates weight selection")
	fs.Int("num-ops", 0, "Number of operations to execute")
	fs.String("table-name", "", "Target table; empty picks uniformly among catalog tables per step")
	fs.String("starting-branch", "", "Branch to connect to before the run starts (empty = default branch)")
	fs.Bool("autocommit", true, "Run each statement in its own transaction")
	fs.Int64("seed", 0, "PRNG seed (default: 0, which uses the current timestamp)")
	fs.Int("range-update.range-size", 0, "Number of consecutive keys a RANGE_UPDATE touches")
	fs.String("catalog-file", "", "YAML table catalog to use instead of live introspection")
	fs.String("output-dir", "/tmp/run_stats", "Directory the result parquet file is written to")
}

// Validate checks the config once, resolves defaults, and parses the
// operation list. It must pass before the controller initializes.
func (c *RunConfig) Validate() error {
	if c.RunID == "" {
		c.RunID = uuid.NewString()
	}
	if c.Seed == 0 {
		c.Seed = int64(time.Now().Nanosecond())
	}

	if !utils.IsIn(c.Backend, targets.SupportedFormats()) {
		return validationErrorf("unsupported backend %q", c.Backend)
	}

	if len(c.Operations) == 0 {
		return validationErrorf("operations must be non-empty")
	}
	c.opKinds = make([]results.OpType, len(c.Operations))
	rangeUpdateRequested := false
	for i, name := range c.Operations {
		kind, ok := results.ParseOpType(name)
		if !ok {
			return validationErrorf("unknown operation %q", name)
		}
		c.opKinds[i] = kind
		if kind == results.OpRangeUpdate {
			rangeUpdateRequested = true
		}
	}

	if c.NumOps <= 0 {
		return validationErrorf("num-ops must be positive, got %d", c.NumOps)
	}

	if rangeUpdateRequested && c.RangeUpdate.RangeSize <= 0 {
		return validationErrorf("range-update.range-size must be positive when RANGE_UPDATE is requested")
	}
	if !rangeUpdateRequested && c.RangeUpdate.RangeSize < 0 {
		return validationErrorf("range-update.range-size must not be negative")
	}

	if c.OutputDir == "" {
		c.OutputDir = "/tmp/run_stats"
	}

	return nil
}

// OpKinds returns the parsed operation list in config order. Only valid
// after Validate.
func (c *RunConfig) OpKinds() []results.OpType {
	return c.opKinds
}
