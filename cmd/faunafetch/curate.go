package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"faunafetch/pkg/config"
	"faunafetch/pkg/curate"
	"faunafetch/pkg/logger"
	"faunafetch/pkg/storage"
	"faunafetch/pkg/ui"
)

var (
	// Curate command flags
	curateDir      string
	curateLimit    int
	curatePerMax   int
	curateBirdsMin int
	curateQuota    string
	curateEnsure   string
	curateVocab    string
	curatePrune    bool
)

// curateCmd represents the curate command
var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Select a species-diverse subset of a downloaded directory",
	Long: `Curate scans a directory of downloaded images, derives an animal key
from each filename, and selects a diverse subset in four stages:

  1. Explicit per-animal quotas (--quota)
  2. Guaranteed representation for listed animals (--ensure)
  3. A minimum number of bird files (--birds-min)
  4. A general fill capped at --per-animal-max files per animal

Files are considered in sorted order at every stage, so the same
directory and flags always produce the same selection. Without
--prune the command only reports what it would keep.`,
	Example: `  # Report what a diverse selection of 80 files would keep
  faunafetch curate --dir ./animals

  # Keep at most 2 files per animal and delete the rest
  faunafetch curate --dir ./animals --per-animal-max 2 --prune

  # Reserve five lion slots, guarantee elephants, require ten birds
  faunafetch curate --dir ./animals --quota lion=5 --ensure elephant --birds-min 10`,
	Run: runCurate,
}

func init() {
	rootCmd.AddCommand(curateCmd)

	// Local flags for curate command
	curateCmd.Flags().StringVarP(&curateDir, "dir", "d", "", "directory of downloaded images")
	curateCmd.Flags().IntVar(&curateLimit, "limit", 80, "maximum number of files to keep")
	curateCmd.Flags().IntVar(&curatePerMax, "per-animal-max", 3, "maximum files kept per animal in the general fill")
	curateCmd.Flags().IntVar(&curateBirdsMin, "birds-min", 0, "minimum number of bird files to keep")
	curateCmd.Flags().StringVar(&curateQuota, "quota", "", "per-animal quotas, e.g. lion=5,tiger=3")
	curateCmd.Flags().StringVar(&curateEnsure, "ensure", "", "comma-separated animals that must be represented")
	curateCmd.Flags().StringVar(&curateVocab, "vocab", "", "vocabulary YAML overriding the built-in animal tokens")
	curateCmd.Flags().BoolVar(&curatePrune, "prune", false, "delete files that were not selected")

	curateCmd.MarkFlagRequired("dir")
}

func runCurate(cmd *cobra.Command, args []string) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if curateLimit != 80 {
		flags["curate-limit"] = curateLimit
	}
	if curatePerMax != 3 {
		flags["per-animal-max"] = curatePerMax
	}
	if curateBirdsMin != 0 {
		flags["birds-min"] = curateBirdsMin
	}
	if curateVocab != "" {
		flags["vocab"] = curateVocab
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
	log := logger.GetLogger()

	vocab, err := curate.LoadVocabulary(cfg.Curate.VocabularyFile)
	if err != nil {
		ui.PrintError("Failed to load vocabulary", err.Error())
		os.Exit(1)
	}

	quotas, err := curate.ParseQuotas(curateQuota, vocab, log)
	if err != nil {
		ui.PrintError("Invalid --quota", err.Error())
		os.Exit(1)
	}
	ensure := curate.ParseEnsure(curateEnsure, vocab, log)

	store, err := storage.OpenManager(curateDir)
	if err != nil {
		ui.PrintError("Cannot open directory", err.Error())
		os.Exit(1)
	}

	opts := curate.Options{
		Limit:     cfg.Curate.Limit,
		PerKeyMax: cfg.Curate.PerAnimalMax,
		Quotas:    quotas,
		Ensure:    ensure,
		BirdsMin:  cfg.Curate.BirdsMin,
	}

	report, err := curate.New(store, vocab, log).Run(opts, curatePrune)
	if err != nil {
		log.WithError(err).Error("Curation failed")
		ui.PrintError("Curation failed", err.Error())
		os.Exit(1)
	}

	if report.Pruned {
		ui.PrintSuccess(fmt.Sprintf("Kept %d files, removed %d others.", report.Kept, report.Removed))
	} else {
		ui.PrintSuccess(fmt.Sprintf("Would keep %d files (not pruning).", report.Kept))
	}
	fmt.Println(ui.RenderCountTable("Per-animal counts", report.PerKey))
}
