package initializers

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets/dolt"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets/neon"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets/postgres"
)

// GetTarget resolves a backend name to its implementation.
func GetTarget(format string) (targets.ImplementedTarget, error) {
	switch format {
	case targets.FormatPostgres:
		return postgres.NewTarget(), nil
	case targets.FormatNeon:
		return neon.NewTarget(), nil
	case targets.FormatDolt:
		return dolt.NewTarget(), nil
	}

	return nil, errors.Errorf("unrecognized backend %s, supported: %s",
		format, strings.Join(targets.SupportedFormats(), ","))
}
