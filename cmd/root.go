// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "github-lifecycle",
	Short: "A CLI tool to extract issue lifecycles from GitHub repositories.",
	Long: `github-lifecycle extracts when work started and finished on the closed issues
and pull requests of GitHub repositories, and selects samples of moderately active
repositories to study. Results are written as one JSON file per issue.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Config file (yaml, json or toml) with default flag values")
	fs.StringP("token", "t", "", "GitHub access token (defaults to $GITHUB_TOKEN)")
	fs.String("api-url", "", "GitHub Enterprise REST API URL")
	fs.String("graphql-url", "", "GitHub Enterprise GraphQL API URL")
}
