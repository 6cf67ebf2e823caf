package utils

import (
	"github.com/spf13/viper"
)

// SetupConfigFile wires the configuration file into the given viper.
// An empty path falls back to ./config.yaml, which is allowed to be
// absent; an explicit path must be readable.
func SetupConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return err
		}
	}

	return nil
}

// SubTree extracts the settings below prefix into a standalone viper.
// Unlike Sub, it goes through AllSettings and therefore sees values
// bound from flags, not just config-file content. Always non-nil.
func SubTree(v *viper.Viper, prefix string) *viper.Viper {
	sub := viper.New()
	settings, ok := v.AllSettings()[prefix].(map[string]interface{})
	if !ok {
		return sub
	}
	for key, val := range settings {
		sub.Set(key, val)
	}
	return sub
}
