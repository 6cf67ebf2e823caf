package neon

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets"
)

// EnvAPIKey is the environment variable holding the Neon API key. The
// core never parses credentials; they pass through as opaque values.
const EnvAPIKey = "NEON_API_KEY"

func NewTarget() targets.ImplementedTarget {
	return &neonTarget{}
}

type neonTarget struct{}

func (t *neonTarget) Name() string {
	return targets.FormatNeon
}

func (t *neonTarget) TargetSpecificFlags(flagPrefix string, fs *pflag.FlagSet) {
	fs.String(flagPrefix+"project-id", "", "Neon project ID")
	fs.String(flagPrefix+"branch-id", "", "Neon branch ID to start from (default branch if empty)")
	fs.String(flagPrefix+"db-name", "benchmark", "Name of the database to run operations against")
	fs.String(flagPrefix+"role", defaultRole, "Role used to build connection URIs")
	fs.String(flagPrefix+"api-base-url", "", "Override the Neon API base URL (testing)")
}

func (t *neonTarget) NewBackend(v *viper.Viper) (targets.Backend, error) {
	var opts Opts
	if err := v.Unmarshal(&opts); err != nil {
		return nil, err
	}
	opts.APIKey = os.Getenv(EnvAPIKey)
	api := NewAPIClient(opts.APIKey, opts.BaseURL)
	return NewAdapter(&opts, api, log.Logger), nil
}
