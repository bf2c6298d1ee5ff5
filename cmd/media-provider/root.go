package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"media-provider-go/internal/app"
	"media-provider-go/pkg/interfaces"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("log-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

// rootCmd is the entry point of the media-provider CLI.
var rootCmd = &cobra.Command{
	Use:           "media-provider",
	Short:         "Resolve player media configurations from OVP and OTT backends",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// newApp builds the application from the persistent flags. One-shot
// commands default to error level logging so stdout stays parseable.
func newApp(cmd *cobra.Command, defaultLevel string) (*app.App, error) {
	level := lo.Must(cmd.Flags().GetString("log-level"))
	return app.New(app.Options{
		ConfigPath: lo.Must(cmd.Flags().GetString("config")),
		LogLevel:   lo.CoalesceOrEmpty(level, defaultLevel),
	})
}

// commandContext is cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}

func lookupProvider(a *app.App, name string) (interfaces.MediaProvider, error) {
	p, ok := a.Ctx.Providers.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %v)", name, a.Ctx.Providers.Names())
	}
	return p, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
