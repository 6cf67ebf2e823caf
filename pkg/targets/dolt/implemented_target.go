package dolt

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets/postgres"
)

func NewTarget() targets.ImplementedTarget {
	return &doltTarget{}
}

type doltTarget struct{}

func (t *doltTarget) Name() string {
	return targets.FormatDolt
}

func (t *doltTarget) TargetSpecificFlags(flagPrefix string, fs *pflag.FlagSet) {
	var opts postgres.Opts
	opts.AddToFlagSet(flagPrefix, fs)
}

func (t *doltTarget) NewBackend(v *viper.Viper) (targets.Backend, error) {
	var opts postgres.Opts
	if err := v.Unmarshal(&opts); err != nil {
		return nil, err
	}
	return NewAdapter(&opts, log.Logger), nil
}
