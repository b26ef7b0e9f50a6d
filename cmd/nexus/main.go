// Package main provides the nexus CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/richinex/nexus/cli"
	"github.com/richinex/nexus/config"
	"github.com/richinex/nexus/internal/observability"
)

var (
	// Global flags
	logLevel string
	pretty   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nexus",
		Short: "Content engine that drafts marketing content with tool-using models",
		Long: `Nexus runs content features (blog posts, ad copy, SEO pages, briefs and more)
for a client by looping a chat-completion model with web search and page scraping
tools, streaming progress as server-sent events.

Configuration comes from .env.local, .env and the environment.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Human-readable log output")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(featuresCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(clientsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// loadApp reads settings, initializes logging and assembles the app.
func loadApp() (*cli.App, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := settings.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	observability.InitLogger(level, pretty || settings.LogPretty)
	return cli.NewApp(settings, observability.GetLogger())
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and the orchestration stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Server(addr).Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default SERVER_ADDR)")

	return cmd
}

func runCmd() *cobra.Command {
	var opts cli.RunOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one feature for a client and print the result",
		Example: `  nexus run --client 3f0c... --feature blog-post \
    --input topic="AI in healthcare" --input primaryKeyword="AI healthcare"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()
			return cli.Run(cmd.Context(), app, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.ClientID, "client", "", "Client ID")
	cmd.Flags().StringVarP(&opts.FeatureID, "feature", "f", "", "Feature ID")
	cmd.Flags().StringArrayVarP(&opts.Inputs, "input", "i", nil, "Feature input as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.ModelID, "model", "", "Model ID (default DEFAULT_MODEL)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save the generated content as a client output")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "Print raw SSE frames")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("feature")

	return cmd
}

func featuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List the content features and their inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()
			cli.PrintFeatures(cmd.OutOrStdout(), app.Catalog)
			return nil
		},
	}
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the selectable models (* marks the default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			cli.PrintModels(cmd.OutOrStdout(), settings.DefaultModel)
			return nil
		},
	}
}

func clientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage clients",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()
			return cli.PrintClients(cmd.Context(), cmd.OutOrStdout(), app.Store)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create [name]",
		Short: "Create a client and print its ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()
			return cli.CreateClient(cmd.Context(), cmd.OutOrStdout(), app.Store, args[0])
		},
	})

	return cmd
}
