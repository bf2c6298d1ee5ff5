package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the provider HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "")
		if err != nil {
			return err
		}
		ctx, stop := commandContext(cmd)
		defer stop()
		return a.Run(ctx)
	},
}
