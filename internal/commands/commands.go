package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ShaoG-R/seal-flow/internal/config"
)

// Execute runs the CLI.
func Execute(version string) error {
	return NewRootCommand(version).Execute() //nolint:wrapcheck // cobra reports its own context
}

// loadConfig unmarshals the bound flags and environment into a validated
// Config for the given direction.
func loadConfig(args []string, decrypt bool) (*config.Config, error) {
	var cfg config.Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	cfg.Files = args
	cfg.Decrypt = decrypt

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// runE adapts a direction into a cobra run function.
func runE(decrypt bool, run func(*config.Config) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg, err := loadConfig(args, decrypt)
		if err != nil {
			return err
		}

		return run(cfg)
	}
}
