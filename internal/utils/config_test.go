package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestSetupConfigFileMissingDefaultIsFine(t *testing.T) {
	v := viper.New()
	if err := SetupConfigFile(v, ""); err != nil {
		t.Fatalf("missing default config should not error: %v", err)
	}
}

func TestSetupConfigFileMissingExplicitFails(t *testing.T) {
	v := viper.New()
	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")
	if err := SetupConfigFile(v, path); err == nil {
		t.Fatal("explicit config path that cannot be read should error")
	}
}

func TestSetupConfigFileReadsExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "num-ops: 25\nbackend:\n  host: db.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	if err := SetupConfigFile(v, path); err != nil {
		t.Fatalf("SetupConfigFile: %v", err)
	}
	if got := v.GetInt("num-ops"); got != 25 {
		t.Errorf("num-ops = %d, want 25", got)
	}
	if got := v.GetString("backend.host"); got != "db.example.com" {
		t.Errorf("backend.host = %q", got)
	}
}

func TestSubTreeSeesFlagBoundValues(t *testing.T) {
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	fs.String("backend.host", "localhost", "")
	fs.String("backend.postgres", "sslmode=disable", "")
	if err := fs.Parse([]string{"--backend.host", "db.example.com"}); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		t.Fatal(err)
	}

	sub := SubTree(v, "backend")
	if sub == nil {
		t.Fatal("SubTree returned nil")
	}
	if got := sub.GetString("host"); got != "db.example.com" {
		t.Errorf("host = %q, want the flag value", got)
	}
	// Flag defaults survive too.
	if got := sub.GetString("postgres"); got != "sslmode=disable" {
		t.Errorf("postgres = %q, want the flag default", got)
	}
}

func TestSubTreeMissingPrefix(t *testing.T) {
	sub := SubTree(viper.New(), "backend")
	if sub == nil {
		t.Fatal("SubTree must never return nil")
	}
	if sub.IsSet("host") {
		t.Error("empty subtree should have no keys")
	}
}
