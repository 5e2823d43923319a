package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	// Test default values
	if config.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("Expected default requests per minute to be 60, got %d", config.RateLimit.RequestsPerMinute)
	}

	if config.Fetch.Limit != 50 {
		t.Errorf("Expected default fetch limit to be 50, got %d", config.Fetch.Limit)
	}

	if config.Fetch.MaxDepth != 3 {
		t.Errorf("Expected default max depth to be 3, got %d", config.Fetch.MaxDepth)
	}

	if config.Fetch.OutputDirectory != "./animals" {
		t.Errorf("Expected default output directory to be ./animals, got %s", config.Fetch.OutputDirectory)
	}

	if config.Curate.Limit != 80 {
		t.Errorf("Expected default curate limit to be 80, got %d", config.Curate.Limit)
	}

	if config.Curate.PerAnimalMax != 3 {
		t.Errorf("Expected default per animal max to be 3, got %d", config.Curate.PerAnimalMax)
	}

	if len(config.Fetch.ExcludeExtensions) != 1 || config.Fetch.ExcludeExtensions[0] != ".svg" {
		t.Errorf("Expected default excluded extensions to be [.svg], got %v", config.Fetch.ExcludeExtensions)
	}

	if config.Fetch.MinWidth != 640 || config.Fetch.MinHeight != 640 {
		t.Errorf("Expected default minimum dimensions to be 640x640, got %dx%d", config.Fetch.MinWidth, config.Fetch.MinHeight)
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Set test environment variables
	os.Setenv("FAUNAFETCH_API_URL", "https://test.example/w/api.php")
	os.Setenv("FAUNAFETCH_USER_AGENT", "test-agent/1.0")
	os.Setenv("FAUNAFETCH_REQUESTS_PER_MINUTE", "30")
	os.Setenv("FAUNAFETCH_OUTPUT_DIR", "/tmp/test-animals")
	os.Setenv("FAUNAFETCH_CACHE_PATH", "/tmp/test-cache.db")
	os.Setenv("FAUNAFETCH_LOG_LEVEL", "debug")

	defer func() {
		// Clean up environment variables
		os.Unsetenv("FAUNAFETCH_API_URL")
		os.Unsetenv("FAUNAFETCH_USER_AGENT")
		os.Unsetenv("FAUNAFETCH_REQUESTS_PER_MINUTE")
		os.Unsetenv("FAUNAFETCH_OUTPUT_DIR")
		os.Unsetenv("FAUNAFETCH_CACHE_PATH")
		os.Unsetenv("FAUNAFETCH_LOG_LEVEL")
	}()

	config := DefaultConfig()
	err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	// Test loaded values
	if config.Commons.APIURL != "https://test.example/w/api.php" {
		t.Errorf("Expected API URL to be overridden, got %s", config.Commons.APIURL)
	}

	if config.Commons.UserAgent != "test-agent/1.0" {
		t.Errorf("Expected user agent to be test-agent/1.0, got %s", config.Commons.UserAgent)
	}

	if config.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("Expected requests per minute to be 30, got %d", config.RateLimit.RequestsPerMinute)
	}

	if config.Fetch.OutputDirectory != "/tmp/test-animals" {
		t.Errorf("Expected output directory to be /tmp/test-animals, got %s", config.Fetch.OutputDirectory)
	}

	if config.Cache.Path != "/tmp/test-cache.db" {
		t.Errorf("Expected cache path to be /tmp/test-cache.db, got %s", config.Cache.Path)
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:      "valid defaults",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "missing api url",
			mutate:    func(c *Config) { c.Commons.APIURL = "" },
			wantError: true,
		},
		{
			name:      "missing user agent",
			mutate:    func(c *Config) { c.Commons.UserAgent = "" },
			wantError: true,
		},
		{
			name:      "zero requests per minute",
			mutate:    func(c *Config) { c.RateLimit.RequestsPerMinute = 0 },
			wantError: true,
		},
		{
			name:      "unknown rate limit strategy",
			mutate:    func(c *Config) { c.RateLimit.Strategy = "leaky_bucket" },
			wantError: true,
		},
		{
			name:      "sliding window strategy accepted",
			mutate:    func(c *Config) { c.RateLimit.Strategy = "sliding_window" },
			wantError: false,
		},
		{
			name:      "missing output directory",
			mutate:    func(c *Config) { c.Fetch.OutputDirectory = "" },
			wantError: true,
		},
		{
			name:      "negative max depth",
			mutate:    func(c *Config) { c.Fetch.MaxDepth = -1 },
			wantError: true,
		},
		{
			name:      "max depth zero allowed",
			mutate:    func(c *Config) { c.Fetch.MaxDepth = 0 },
			wantError: false,
		},
		{
			name:      "zero per animal max",
			mutate:    func(c *Config) { c.Curate.PerAnimalMax = 0 },
			wantError: true,
		},
		{
			name:      "negative birds min",
			mutate:    func(c *Config) { c.Curate.BirdsMin = -1 },
			wantError: true,
		},
		{
			name: "cache path without ttl",
			mutate: func(c *Config) {
				c.Cache.Path = "/tmp/cache.db"
				c.Cache.TTL = 0
			},
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "trace" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no validation error, got %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `
commons:
  user_agent: "file-agent/2.0"
rate_limit:
  requests_per_minute: 42
  strategy: sliding_window
fetch:
  limit: 200
  max_depth: 5
curate:
  per_animal_max: 7
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Commons.UserAgent != "file-agent/2.0" {
		t.Errorf("Expected user agent from file, got %s", config.Commons.UserAgent)
	}
	if config.RateLimit.RequestsPerMinute != 42 {
		t.Errorf("Expected requests per minute 42, got %d", config.RateLimit.RequestsPerMinute)
	}
	if config.RateLimit.Strategy != "sliding_window" {
		t.Errorf("Expected sliding_window strategy, got %s", config.RateLimit.Strategy)
	}
	if config.Fetch.Limit != 200 {
		t.Errorf("Expected fetch limit 200, got %d", config.Fetch.Limit)
	}
	if config.Fetch.MaxDepth != 5 {
		t.Errorf("Expected max depth 5, got %d", config.Fetch.MaxDepth)
	}
	if config.Curate.PerAnimalMax != 7 {
		t.Errorf("Expected per animal max 7, got %d", config.Curate.PerAnimalMax)
	}

	// Untouched values keep their defaults
	if config.Commons.APIURL != "https://commons.wikimedia.org/w/api.php" {
		t.Errorf("Expected default API URL to survive, got %s", config.Commons.APIURL)
	}
}

func TestLoadFromFileMissingIsNotAnError(t *testing.T) {
	config := DefaultConfig()

	// Empty path with no config file in the search locations should be a no-op
	tempDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tempDir)
	defer os.Chdir(oldWd)

	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", oldHome)

	if err := config.LoadFromFile(""); err != nil {
		t.Errorf("Expected missing config file to be skipped, got %v", err)
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"out":            "/tmp/zoo",
		"limit":          120,
		"max-depth":      1,
		"rate-limit":     10,
		"include":        "lion, Tiger",
		"exclude":        "insect,spider",
		"exclude-ext":    ".svg,.TIF",
		"metadata-cache": "/tmp/meta.db",
		"curate-limit":   40,
		"per-animal-max": 2,
		"birds-min":      5,
		"vocab":          "/tmp/vocab.yaml",
		"log-level":      "warn",
	}

	config.MergeCommandLineFlags(flags)

	if config.Fetch.OutputDirectory != "/tmp/zoo" {
		t.Errorf("Expected output directory /tmp/zoo, got %s", config.Fetch.OutputDirectory)
	}
	if config.Fetch.Limit != 120 {
		t.Errorf("Expected fetch limit 120, got %d", config.Fetch.Limit)
	}
	if config.Fetch.MaxDepth != 1 {
		t.Errorf("Expected max depth 1, got %d", config.Fetch.MaxDepth)
	}
	if config.RateLimit.RequestsPerMinute != 10 {
		t.Errorf("Expected rate limit 10, got %d", config.RateLimit.RequestsPerMinute)
	}
	if len(config.Fetch.IncludeKeywords) != 2 || config.Fetch.IncludeKeywords[1] != "tiger" {
		t.Errorf("Expected lowercased include keywords, got %v", config.Fetch.IncludeKeywords)
	}
	if len(config.Fetch.ExcludeExtensions) != 2 || config.Fetch.ExcludeExtensions[1] != ".tif" {
		t.Errorf("Expected lowercased extensions, got %v", config.Fetch.ExcludeExtensions)
	}
	if config.Cache.Path != "/tmp/meta.db" {
		t.Errorf("Expected cache path /tmp/meta.db, got %s", config.Cache.Path)
	}
	if config.Curate.Limit != 40 {
		t.Errorf("Expected curate limit 40, got %d", config.Curate.Limit)
	}
	if config.Curate.PerAnimalMax != 2 {
		t.Errorf("Expected per animal max 2, got %d", config.Curate.PerAnimalMax)
	}
	if config.Curate.BirdsMin != 5 {
		t.Errorf("Expected birds min 5, got %d", config.Curate.BirdsMin)
	}
	if config.Curate.VocabularyFile != "/tmp/vocab.yaml" {
		t.Errorf("Expected vocabulary file /tmp/vocab.yaml, got %s", config.Curate.VocabularyFile)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected log level warn, got %s", config.Logging.Level)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"spaces and case", " Lion , TIGER ", []string{"lion", "tiger"}},
		{"empty entries dropped", "a,,b,", []string{"a", "b"}},
		{"empty string", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nested", "config.yaml")

	config := DefaultConfig()
	config.Fetch.Limit = 77
	config.Cache.TTL = 2 * time.Hour

	if err := config.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	reloaded := DefaultConfig()
	if err := reloaded.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	if reloaded.Fetch.Limit != 77 {
		t.Errorf("Expected fetch limit 77 after reload, got %d", reloaded.Fetch.Limit)
	}
	if reloaded.Cache.TTL != 2*time.Hour {
		t.Errorf("Expected cache TTL 2h after reload, got %v", reloaded.Cache.TTL)
	}
}
