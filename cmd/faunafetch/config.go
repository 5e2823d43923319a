package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"faunafetch/pkg/config"
	"faunafetch/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage FaunaFetch configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (FAUNAFETCH_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with the common options.

The file is created in the current directory as 'faunafetch.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging all sources:
  - Environment variables
  - Configuration file
  - Default values`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	// Determine config file path
	configPath := configFile
	if configPath == "" {
		configPath = "faunafetch.yaml"
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	// Create example configuration
	exampleConfig := `# FaunaFetch Configuration File
#
# Any option here can also be set through environment variables
# prefixed with FAUNAFETCH_
# For example: FAUNAFETCH_USER_AGENT, FAUNAFETCH_OUTPUT_DIR

# Wikimedia Commons API settings
commons:
  # MediaWiki API endpoint
  api_url: "https://commons.wikimedia.org/w/api.php"

  # User-Agent sent with every request. Commons asks API clients to
  # identify themselves, ideally with contact information.
  user_agent: "faunafetch/1.0 (animal asset pipeline)"

# Rate limiting configuration
rate_limit:
  # API requests per minute
  # Range: 1-120
  requests_per_minute: 60

  # Rate limiting strategy: token_bucket, sliding_window
  strategy: "token_bucket"

# Fetch pipeline settings
fetch:
  # Output directory for downloads
  output_directory: "./animals"

  # Maximum number of files to collect across all categories
  limit: 50

  # Maximum subcategory recursion depth
  max_depth: 3

  # Keep only files whose title or filename contains one of these
  # keywords. Empty means keep everything.
  include_keywords: []

  # Reject files whose title or filename contains one of these keywords
  exclude_keywords: []

  # Reject files with these extensions
  exclude_extensions:
    - ".svg"

  # Reject files smaller than this in both dimensions
  min_width: 640
  min_height: 640

# Curation settings
curate:
  # Maximum number of files to keep
  limit: 80

  # Maximum files kept per animal in the general fill
  per_animal_max: 3

  # Minimum number of bird files to keep
  birds_min: 0

  # Vocabulary YAML overriding the built-in animal tokens (optional)
  vocabulary_file: ""

# Metadata response cache
cache:
  # Path to a sqlite database for caching imageinfo responses
  # Leave empty to disable caching
  path: ""

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to the console only
  file: ""
`

	// Write configuration file
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the configuration file to suit your dataset")
	fmt.Println("2. Run 'faunafetch config validate' to check the configuration")
	fmt.Println("3. Start downloading with 'faunafetch fetch --category <name> --out <dir>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Convert to YAML for display
	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	// Show configuration sources
	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (FAUNAFETCH_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	// Check if config file is specified
	if configFile == "" {
		// Try to find config file in common locations
		possiblePaths := []string{
			"faunafetch.yaml",
			"faunafetch.yml",
			".faunafetch.yaml",
			".faunafetch.yml",
			filepath.Join(os.Getenv("HOME"), ".faunafetch.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "faunafetch", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	// Try to load and validate configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	// Perform additional validation checks
	warnings := []string{}
	errors := []string{}

	// The Commons API throttles aggressive clients
	if cfg.RateLimit.RequestsPerMinute > 120 {
		warnings = append(warnings, "requests_per_minute above 120 risks throttling by the API")
	}
	if cfg.Commons.UserAgent == config.DefaultConfig().Commons.UserAgent {
		warnings = append(warnings, "user_agent is the default; consider adding contact information")
	}

	// Check paths
	if cfg.Fetch.OutputDirectory != "" {
		if err := os.MkdirAll(cfg.Fetch.OutputDirectory, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create output directory: %v", err))
		}
	}
	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}
	if cfg.Cache.Path != "" {
		dir := filepath.Dir(cfg.Cache.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create cache directory: %v", err))
		}
	}

	// Display results
	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	// Show summary
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Output directory: %s\n", cfg.Fetch.OutputDirectory)
	fmt.Printf("  Fetch limit: %d\n", cfg.Fetch.Limit)
	fmt.Printf("  Max depth: %d\n", cfg.Fetch.MaxDepth)
	fmt.Printf("  Rate limit: %d requests/minute (%s)\n", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Strategy)
	fmt.Printf("  Curate limit: %d (max %d per animal)\n", cfg.Curate.Limit, cfg.Curate.PerAnimalMax)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
