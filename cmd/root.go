package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"limitless-sync/internal"
)

var (
	verbose    bool
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "limitless-sync",
	Short: "Sync Limitless lifelogs and chats into a local markdown vault",
	Long: `A CLI tool to pull lifelogs and chat conversations from the
Limitless API and materialize them as markdown files in a local vault.

Lifelogs land as one file per calendar date; chats land per-chat, daily or
monthly depending on configuration. Re-running a sync never rewrites files
whose content has not changed, and an interrupted run resumes from what is
already on disk.

Quick Start:
  limitless-sync sync                 # Sync lifelogs and chats
  limitless-sync chats show <id>      # Print one chat as markdown
  limitless-sync history              # Show recent sync runs

Configuration lives in ~/.limitless-sync.yaml; the API key is read from
the LIMITLESS_API_KEY environment variable (a .env file works too).`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.limitless-sync.yaml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig resolves the config path and loads the configuration
func loadConfig() (*internal.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = internal.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return internal.LoadConfig(path)
}
