package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/concerto"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of concerto",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("concerto version %s\n", strings.TrimSpace(concerto.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
