package model

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultContextWindow is the number of characters captured on each side of a match
const DefaultContextWindow = 100

// Config is the complete strata configuration
type Config struct {
	Extraction  ExtractionConfig  `yaml:"extraction"`
	Source      SourceConfig      `yaml:"source"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
	LLM         LLMConfig         `yaml:"llm"`
}

// ExtractionConfig controls the pattern extractors
type ExtractionConfig struct {
	ContextWindow int `yaml:"context_window"`
}

// SourceConfig controls how documents are read and fetched
type SourceConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	RespectRobots     bool          `yaml:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty"`
}

// CacheConfig controls the extraction result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// LLMConfig controls the optional narrative summary
type LLMConfig struct {
	Provider  string `yaml:"provider"` // openai, anthropic, ollama, or empty to disable
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"` // From environment only
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			ContextWindow: DefaultContextWindow,
		},
		Source: SourceConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "Strata/0.1 (+https://github.com/ppiankov/strata)",
			MaxBodyBytes:      20_000_000,
			RespectRobots:     true,
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 800,
		},
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".strata-cache"
	}
	return filepath.Join(dir, "strata")
}
