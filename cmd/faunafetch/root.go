package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"faunafetch/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "faunafetch",
	Short: "Fetch and curate openly licensed animal photos from Wikimedia Commons",
	Long: `FaunaFetch is a command-line tool for building animal image datasets
from Wikimedia Commons categories.

Features:
  - Recursive category walking with a configurable depth limit
  - Batched metadata lookups against the MediaWiki API
  - Keyword, extension, and dimension filters
  - A CSV provenance record (license, artist, credit) for every download
  - Species-diverse curation of a downloaded directory, with quotas

For more information and examples, visit: https://github.com/yourusername/faunafetch`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Quiet mode also follows from an error-only log level
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		if noColor || !ui.IsTerminal() {
			ui.SetColorEnabled(false)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.faunafetch.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors and results")

	// Version template
	rootCmd.SetVersionTemplate(`FaunaFetch {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
