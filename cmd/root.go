package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var envDir string

	rootCmd := &cobra.Command{
		Use:           "listings",
		Short:         "Listings CRUD service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), envDir)
		},
	}

	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", ".", "Directory holding the .env overlay files")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Validate configuration and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), envDir)
		},
	})
	rootCmd.AddCommand(newConfigCommand(&envDir))

	return rootCmd
}
