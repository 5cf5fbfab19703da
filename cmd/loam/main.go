package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/loam-dev/loam/internal/interfaces/cli/migrate"
	"github.com/loam-dev/loam/internal/interfaces/cli/server"
	"github.com/loam-dev/loam/internal/interfaces/cli/sweep"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "loam",
		Short: "Loam - multi-tenant site platform",
		Long:  `Loam runs the subscription lifecycle engine and access gate for the site platform, with built-in server, migration and sweep commands.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		sweep.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
