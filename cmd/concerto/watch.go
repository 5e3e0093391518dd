package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/concerto/internal/cli"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Re-validate documents whenever they change",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		paths := inputs(cmd, args)
		if len(paths) == 0 {
			fmt.Fprintln(os.Stderr, "Error: No input files specified. Use --input to specify files to watch.")
			os.Exit(1)
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		v, err := cli.NewValidator(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := cli.RunWatch(ctx, v, paths, cli.NewReporter(os.Stdout), logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceP("input", "i", nil, "Input file to watch (repeatable)")
}
