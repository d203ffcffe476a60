package main

import (
	"fmt"

	"github.com/aleister1102/urlist/internal/config"
	"github.com/aleister1102/urlist/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "urlist",
		Short:         "Collect links into bundles published under vanity URLs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("urlist %s (commit %s)\n", version, commit))
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML/JSON configuration file (default: search standard locations)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log_config.log_level")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newResolveCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig loads, overrides and validates the configuration, then builds the root logger.
func loadConfig(opts *rootOptions) (*config.GlobalConfig, zerolog.Logger, error) {
	bootLogger, _ := logger.NewLoggerBuilder().WithoutStdLogRedirect().Build()

	cfg, err := config.LoadGlobalConfig(opts.configPath, bootLogger)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("could not load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.LogConfig.LogLevel = opts.logLevel
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, zerolog.Nop(), err
	}

	log, err := logger.New(cfg.LogConfig)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("could not initialize logger: %w", err)
	}
	return cfg, log, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "urlist %s (commit %s)\n", version, commit)
		},
	}
}
