package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"faunafetch/pkg/config"
	"faunafetch/pkg/logger"
	"faunafetch/pkg/scraper"
	"faunafetch/pkg/ui"
)

var (
	// Fetch command flags
	fetchCategories []string
	fetchOut        string
	fetchLimit      int
	fetchMaxDepth   int
	fetchInclude    string
	fetchExclude    string
	fetchExcludeExt string
	fetchRateLimit  int
	fetchCachePath  string
	fetchUserAgent  string
	fetchNotify     bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download photos from Wikimedia Commons categories",
	Long: `Download openly licensed photos from one or more Wikimedia Commons
categories.

Each category is walked recursively up to --max-depth levels of
subcategories, collecting file pages until --limit titles have been
gathered across all categories. Image metadata is then fetched in
batches and every candidate runs through the filters: missing URL,
minimum dimensions, excluded extensions, and keyword lists.

Survivors are downloaded into --out and recorded in an
animals_metadata.csv file next to it, one row per saved file with its
source URL, license, artist, and credit.`,
	Example: `  # Fetch 50 mammal pictures into ./animals
  faunafetch fetch --category "Featured pictures of mammals" --out ./animals

  # Walk two categories, keep only lions and tigers
  faunafetch fetch --category Lions --category Tigers --include lion,tiger --out ./cats

  # A larger run with a metadata cache and a gentler rate limit
  faunafetch fetch --category Birds --limit 200 --metadata-cache ./meta.db --rate-limit 30 --out ./birds`,
	Run: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	// Local flags for fetch command
	fetchCmd.Flags().StringArrayVar(&fetchCategories, "category", nil, "Commons category to walk (repeatable)")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "output directory for downloads")
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 50, "maximum number of files to collect across all categories")
	fetchCmd.Flags().IntVar(&fetchMaxDepth, "max-depth", 3, "maximum subcategory recursion depth")
	fetchCmd.Flags().StringVar(&fetchInclude, "include", "", "comma-separated keywords a title or filename must contain")
	fetchCmd.Flags().StringVar(&fetchExclude, "exclude", "", "comma-separated keywords that reject a title or filename")
	fetchCmd.Flags().StringVar(&fetchExcludeExt, "exclude-ext", "", "comma-separated file extensions to reject")
	fetchCmd.Flags().IntVar(&fetchRateLimit, "rate-limit", 60, "API requests per minute")
	fetchCmd.Flags().StringVar(&fetchCachePath, "metadata-cache", "", "path to a sqlite cache for imageinfo responses")
	fetchCmd.Flags().StringVar(&fetchUserAgent, "user-agent", "", "User-Agent header for API requests")
	fetchCmd.Flags().BoolVar(&fetchNotify, "notify", false, "send a desktop notification when the run finishes")

	fetchCmd.MarkFlagRequired("category")
	fetchCmd.MarkFlagRequired("out")
}

func runFetch(cmd *cobra.Command, args []string) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if fetchOut != "" {
		flags["out"] = fetchOut
	}
	if fetchLimit != 50 {
		flags["limit"] = fetchLimit
	}
	if fetchMaxDepth != 3 {
		flags["max-depth"] = fetchMaxDepth
	}
	if fetchInclude != "" {
		flags["include"] = fetchInclude
	}
	if fetchExclude != "" {
		flags["exclude"] = fetchExclude
	}
	if fetchExcludeExt != "" {
		flags["exclude-ext"] = fetchExcludeExt
	}
	if fetchRateLimit != 60 {
		flags["rate-limit"] = fetchRateLimit
	}
	if fetchCachePath != "" {
		flags["metadata-cache"] = fetchCachePath
	}
	if fetchUserAgent != "" {
		flags["user-agent"] = fetchUserAgent
	}
	// Pass log level to config
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	logger.WithField("version", version).Info("FaunaFetch starting")

	ui.PrintInfo("Categories", strings.Join(fetchCategories, ", "))
	ui.PrintInfo("Output directory", cfg.Fetch.OutputDirectory)

	s, err := scraper.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize fetcher", err.Error())
		os.Exit(1)
	}
	defer s.Close()

	report, err := s.FetchCategories(fetchCategories)
	if err != nil {
		logger.WithError(err).Error("Fetch failed")
		ui.PrintError("Fetch failed", err.Error())
		if fetchNotify {
			ui.Notify("FaunaFetch", "Fetch failed: "+err.Error())
		}
		os.Exit(1)
	}

	if report.Examined == 0 {
		ui.PrintWarning("No files found", "check the category names and --max-depth")
	} else {
		ui.PrintSuccess(fmt.Sprintf("Downloaded %d files (%d examined, %d failed)",
			report.Downloaded, report.Examined, report.Failed))
		if len(report.Skipped) > 0 {
			fmt.Println(ui.RenderCountTable("Skipped", report.Skipped))
		}
		if report.CSVPath != "" {
			ui.PrintInfo("Metadata CSV", report.CSVPath)
		}
	}

	if fetchNotify {
		ui.Notify("FaunaFetch", fmt.Sprintf("Downloaded %d files", report.Downloaded))
	}
}
