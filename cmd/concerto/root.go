package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/concerto/internal/cli"
	"github.com/aretw0/concerto/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "concerto",
	Short: "Concerto validates JSON documents against a Concerto metamodel",
	Long: `Concerto loads a metamodel (by default the Concerto metamodel itself)
and checks JSON or YAML instances against it: required and unknown properties,
primitive types, arrays, nested resources and string regex validators.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default is ./.concerto.yaml or $HOME/.concerto.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable verbose debug logging to stderr")
	rootCmd.PersistentFlags().StringP("metamodel", "m", "", "Metamodel JSON file (default is the embedded Concerto metamodel)")
	rootCmd.PersistentFlags().Int("max-depth", 0, "Maximum nesting depth of resources (default 256)")
	rootCmd.PersistentFlags().Bool("single-level", false, "Inherit properties from the direct supertype only")
}

// loadConfig reads the config file and applies the flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("metamodel") {
		cfg.Metamodel, _ = flags.GetString("metamodel")
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth, _ = flags.GetInt("max-depth")
		if cfg.MaxDepth <= 0 {
			return nil, nil, fmt.Errorf("--max-depth must be positive, got %d", cfg.MaxDepth)
		}
	}
	if flags.Changed("single-level") {
		cfg.SingleLevel, _ = flags.GetBool("single-level")
	}

	logger := cli.NewLogger(cfg.Debug)
	slog.SetDefault(logger)
	if cfg.File != "" {
		logger.Debug("Config loaded", "file", cfg.File)
	}
	return cfg, logger, nil
}

// inputs merges the repeated --input flag with positional arguments.
func inputs(cmd *cobra.Command, args []string) []string {
	paths, _ := cmd.Flags().GetStringSlice("input")
	return append(paths, args...)
}
