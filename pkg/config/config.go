package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the Commons fetcher and curator
type Config struct {
	// Wikimedia Commons API settings
	Commons CommonsConfig `yaml:"commons" json:"commons"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Fetch pipeline settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Curation settings
	Curate CurateConfig `yaml:"curate" json:"curate"`

	// Metadata response cache
	Cache CacheConfig `yaml:"cache" json:"cache"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CommonsConfig holds Wikimedia Commons API configuration
type CommonsConfig struct {
	APIURL         string        `yaml:"api_url" json:"api_url"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// RateLimitConfig holds request pacing configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	Strategy          string        `yaml:"strategy" json:"strategy"`
	WalkPause         time.Duration `yaml:"walk_pause" json:"walk_pause"`
	BatchPause        time.Duration `yaml:"batch_pause" json:"batch_pause"`
}

// FetchConfig holds category fetch and filter configuration
type FetchConfig struct {
	OutputDirectory   string   `yaml:"output_directory" json:"output_directory"`
	Limit             int      `yaml:"limit" json:"limit"`
	MaxDepth          int      `yaml:"max_depth" json:"max_depth"`
	IncludeKeywords   []string `yaml:"include_keywords" json:"include_keywords"`
	ExcludeKeywords   []string `yaml:"exclude_keywords" json:"exclude_keywords"`
	ExcludeExtensions []string `yaml:"exclude_extensions" json:"exclude_extensions"`
	MinWidth          int      `yaml:"min_width" json:"min_width"`
	MinHeight         int      `yaml:"min_height" json:"min_height"`
}

// CurateConfig holds diverse-selection configuration
type CurateConfig struct {
	Limit          int    `yaml:"limit" json:"limit"`
	PerAnimalMax   int    `yaml:"per_animal_max" json:"per_animal_max"`
	BirdsMin       int    `yaml:"birds_min" json:"birds_min"`
	VocabularyFile string `yaml:"vocabulary_file" json:"vocabulary_file"`
}

// CacheConfig holds imageinfo response cache configuration
type CacheConfig struct {
	Path string        `yaml:"path" json:"path"`
	TTL  time.Duration `yaml:"ttl" json:"ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Commons: CommonsConfig{
			APIURL:         "https://commons.wikimedia.org/w/api.php",
			UserAgent:      "faunafetch/1.0 (animal asset pipeline)",
			RequestTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			Strategy:          "token_bucket",
			WalkPause:         100 * time.Millisecond,
			BatchPause:        200 * time.Millisecond,
		},
		Fetch: FetchConfig{
			OutputDirectory:   "./animals",
			Limit:             50,
			MaxDepth:          3,
			ExcludeExtensions: []string{".svg"},
			MinWidth:          640,
			MinHeight:         640,
		},
		Curate: CurateConfig{
			Limit:        80,
			PerAnimalMax: 3,
			BirdsMin:     0,
		},
		Cache: CacheConfig{
			Path: "",
			TTL:  7 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if apiURL := os.Getenv("FAUNAFETCH_API_URL"); apiURL != "" {
		c.Commons.APIURL = apiURL
	}
	if userAgent := os.Getenv("FAUNAFETCH_USER_AGENT"); userAgent != "" {
		c.Commons.UserAgent = userAgent
	}

	// Rate limiting
	if rpm := os.Getenv("FAUNAFETCH_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	// Output directory
	if outputDir := os.Getenv("FAUNAFETCH_OUTPUT_DIR"); outputDir != "" {
		c.Fetch.OutputDirectory = outputDir
	}

	// Cache path
	if cachePath := os.Getenv("FAUNAFETCH_CACHE_PATH"); cachePath != "" {
		c.Cache.Path = cachePath
	}

	// Logging level
	if logLevel := os.Getenv("FAUNAFETCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".faunafetch.yaml",
		".faunafetch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "faunafetch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "faunafetch", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".faunafetch.yaml"),
		filepath.Join(os.Getenv("HOME"), ".faunafetch.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Validate Commons settings
	if c.Commons.APIURL == "" {
		errs = append(errs, errors.New("commons API URL is required"))
	}
	if c.Commons.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.Commons.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	// Validate rate limiting
	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	validStrategies := map[string]bool{
		"token_bucket": true, "sliding_window": true,
	}
	if !validStrategies[strings.ToLower(c.RateLimit.Strategy)] {
		errs = append(errs, errors.New("invalid rate limit strategy"))
	}
	if c.RateLimit.WalkPause < 0 {
		errs = append(errs, errors.New("walk pause cannot be negative"))
	}
	if c.RateLimit.BatchPause < 0 {
		errs = append(errs, errors.New("batch pause cannot be negative"))
	}

	// Validate fetch settings
	if c.Fetch.OutputDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Fetch.Limit <= 0 {
		errs = append(errs, errors.New("fetch limit must be positive"))
	}
	if c.Fetch.MaxDepth < 0 {
		errs = append(errs, errors.New("max depth cannot be negative"))
	}
	if c.Fetch.MinWidth <= 0 || c.Fetch.MinHeight <= 0 {
		errs = append(errs, errors.New("minimum dimensions must be positive"))
	}

	// Validate curation settings
	if c.Curate.Limit <= 0 {
		errs = append(errs, errors.New("curate limit must be positive"))
	}
	if c.Curate.PerAnimalMax <= 0 {
		errs = append(errs, errors.New("per animal max must be positive"))
	}
	if c.Curate.BirdsMin < 0 {
		errs = append(errs, errors.New("birds min cannot be negative"))
	}

	// Validate cache
	if c.Cache.Path != "" && c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache TTL must be positive"))
	}

	// Validate logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if userAgent, ok := flags["user-agent"].(string); ok && userAgent != "" {
		c.Commons.UserAgent = userAgent
	}
	if rpm, ok := flags["rate-limit"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if outputDir, ok := flags["out"].(string); ok && outputDir != "" {
		c.Fetch.OutputDirectory = outputDir
	}
	if limit, ok := flags["limit"].(int); ok && limit > 0 {
		c.Fetch.Limit = limit
	}
	if maxDepth, ok := flags["max-depth"].(int); ok && maxDepth >= 0 {
		c.Fetch.MaxDepth = maxDepth
	}
	if include, ok := flags["include"].(string); ok && include != "" {
		c.Fetch.IncludeKeywords = SplitList(include)
	}
	if exclude, ok := flags["exclude"].(string); ok && exclude != "" {
		c.Fetch.ExcludeKeywords = SplitList(exclude)
	}
	if excludeExt, ok := flags["exclude-ext"].(string); ok && excludeExt != "" {
		c.Fetch.ExcludeExtensions = SplitList(excludeExt)
	}
	if cachePath, ok := flags["metadata-cache"].(string); ok && cachePath != "" {
		c.Cache.Path = cachePath
	}
	if limit, ok := flags["curate-limit"].(int); ok && limit > 0 {
		c.Curate.Limit = limit
	}
	if perMax, ok := flags["per-animal-max"].(int); ok && perMax > 0 {
		c.Curate.PerAnimalMax = perMax
	}
	if birdsMin, ok := flags["birds-min"].(int); ok && birdsMin >= 0 {
		c.Curate.BirdsMin = birdsMin
	}
	if vocabPath, ok := flags["vocab"].(string); ok && vocabPath != "" {
		c.Curate.VocabularyFile = vocabPath
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// SplitList splits a comma-separated flag value into trimmed lowercase entries.
// Empty entries are dropped.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".faunafetch.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
