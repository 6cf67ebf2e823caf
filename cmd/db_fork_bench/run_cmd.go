package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/HuangZiheng-o-O/db-fork-bench/internal/utils"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/bench"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/results"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets"
	"github.com/HuangZiheng-o-O/db-fork-bench/pkg/targets/initializers"
)

type cmdRunner func(*cobra.Command, []string)

func initRunCMD() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:              "run",
		Short:            "Execute a benchmark run against a target backend",
		PersistentPreRun: initViperConfig,
	}
	cmd.PersistentFlags().AddFlagSet(runCmdFlags())
	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		return nil, fmt.Errorf("could not bind flags to configuration: %v", err)
	}

	cmd.AddCommand(initRunSubCommands()...)
	return cmd, nil
}

func runCmdFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	cfg := &bench.RunConfig{}
	cfg.AddToFlagSet(fs)
	return fs
}

func initRunSubCommands() []*cobra.Command {
	allFormats := targets.SupportedFormats()
	commands := make([]*cobra.Command, len(allFormats))
	for i, format := range allFormats {
		target, err := initializers.GetTarget(format)
		if err != nil {
			panic(err)
		}
		cmd := &cobra.Command{
			Use:   format,
			Short: "Run the benchmark against " + format,
			Run:   createRunBench(target),
		}
		// bound lazily in createRunBench so viper only sees the
		// executed sub-command's flags
		target.TargetSpecificFlags("backend.", cmd.PersistentFlags())
		commands[i] = cmd
	}
	return commands
}

func createRunBench(target targets.ImplementedTarget) cmdRunner {
	return func(cmd *cobra.Command, args []string) {
		log := newLogger()
		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			log.Fatal().Err(err).Str("backend", target.Name()).Msg("could not bind backend flags")
		}

		cfg := &bench.RunConfig{}
		if err := viper.Unmarshal(cfg); err != nil {
			log.Fatal().Err(err).Msg("could not parse configuration")
		}
		cfg.Backend = target.Name()
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}

		// Sub would only see config-file content; SubTree also picks up
		// flag-bound backend options.
		backendViper := utils.SubTree(viper.GetViper(), "backend")
		// the transaction mode is a run-level setting; backends read it
		// from their own config subtree
		backendViper.Set("autocommit", cfg.AutoCommit)

		backend, err := target.NewBackend(backendViper)
		if err != nil {
			log.Fatal().Err(err).Str("backend", target.Name()).Msg("could not build backend")
		}

		writer := results.NewParquetWriter(cfg.OutputDir)
		runner := bench.NewRunner(cfg, backend, writer, os.Stdout, log)
		if err := runner.Run(context.Background()); err != nil {
			log.Error().Err(err).Str("state", runner.State().String()).Msg("run failed")
			os.Exit(1)
		}
	}
}

func initViperConfig(*cobra.Command, []string) {
	if err := utils.SetupConfigFile(viper.GetViper(), cfgFile); err != nil {
		log := newLogger()
		log.Fatal().Err(err).Str("config", cfgFile).Msg("could not read config file")
	}
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Println("Using config file:", used)
	}
}
