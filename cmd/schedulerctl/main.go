package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "schedulerctl",
	Short: "Operator tools for the tournament scheduler",
	Long: `Offline planning of group-stage schedules, schema migrations and
development tokens for the tournament scheduler API.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "schedulerctl: %s\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
