package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/concerto/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the types declared by the metamodel",
	Long:  `Prints every declared type with its kind, supertype and effective property count.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		v, err := cli.NewValidator(context.Background(), cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		plain, _ := cmd.Flags().GetBool("plain")
		render := !plain && term.IsTerminal(int(os.Stdout.Fd()))
		if err := cli.PrintTypes(os.Stdout, v.Registry(), render); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.Flags().Bool("plain", false, "Print raw Markdown even on a terminal")
}
