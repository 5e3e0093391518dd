package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/concerto/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate JSON or YAML documents against the metamodel",
	Long: `Validates each input file and prints a per-file result followed by a report.
Files ending in .yaml or .yml are read as YAML; everything else as JSON.
The exit code is 1 when any file fails or is skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		flags := cmd.Flags()
		if flags.Changed("format") {
			cfg.Format, _ = flags.GetString("format")
		}
		if flags.Changed("concurrency") {
			cfg.Concurrency, _ = flags.GetInt("concurrency")
		}
		failEarly, _ := flags.GetBool("fail-early")

		if cfg.Format != "text" && cfg.Format != "json" {
			fmt.Fprintf(os.Stderr, "Error: unknown format %q. Supported: text, json\n", cfg.Format)
			os.Exit(1)
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		v, err := cli.NewValidator(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		code := cli.RunValidate(ctx, v, inputs(cmd, args), cli.ValidateOptions{
			FailEarly:   failEarly,
			Format:      cfg.Format,
			Concurrency: cfg.Concurrency,
		}, os.Stdout, os.Stderr)
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringSliceP("input", "i", nil, "Input file to validate (repeatable)")
	validateCmd.Flags().Bool("fail-early", false, "Stop at the first invalid file")
	validateCmd.Flags().StringP("format", "f", "text", "Output format: 'text' or 'json'")
	validateCmd.Flags().IntP("concurrency", "c", 4, "Number of files validated in parallel")
}
