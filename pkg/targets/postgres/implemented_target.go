package postgres

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets"
)

func NewTarget() targets.ImplementedTarget {
	return &postgresTarget{}
}

type postgresTarget struct{}

func (t *postgresTarget) Name() string {
	return targets.FormatPostgres
}

func (t *postgresTarget) TargetSpecificFlags(flagPrefix string, fs *pflag.FlagSet) {
	var opts Opts
	opts.AddToFlagSet(flagPrefix, fs)
}

func (t *postgresTarget) NewBackend(v *viper.Viper) (targets.Backend, error) {
	var opts Opts
	if err := v.Unmarshal(&opts); err != nil {
		return nil, err
	}
	return NewAdapter(&opts, log.Logger), nil
}
