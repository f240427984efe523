package model

import (
	"runtime"
	"time"
)

// Config is the complete scout configuration.
// Loaded by viper from flags, SCOUT_* env vars, ~/.scout/config.yaml and these defaults.
type Config struct {
	Backend     BackendConfig     `mapstructure:"backend" yaml:"backend"`
	LLM         LLMConfig         `mapstructure:"llm" yaml:"llm"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Store       StoreConfig       `mapstructure:"store" yaml:"store"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
}

// BackendConfig points at the account-planning backend API
type BackendConfig struct {
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	APIToken          string        `mapstructure:"api_token" yaml:"api_token,omitempty"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int           `mapstructure:"burst" yaml:"burst"`
	HTTPProxy         string        `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy        string        `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
	NoProxy           string        `mapstructure:"no_proxy" yaml:"no_proxy,omitempty"`
}

// LLMConfig configures the optional model-backed people finder
type LLMConfig struct {
	Provider  string `mapstructure:"provider" yaml:"provider"` // "openai" or "" (disabled)
	Model     string `mapstructure:"model" yaml:"model"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL   string `mapstructure:"base_url" yaml:"base_url,omitempty"` // OpenAI-compatible endpoint, e.g. Ollama
	Timeout   int    `mapstructure:"timeout" yaml:"timeout"`             // seconds
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// CacheConfig configures the extraction result cache
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Dir       string        `mapstructure:"dir" yaml:"dir"`
	MemoryTTL time.Duration `mapstructure:"memory_ttl" yaml:"memory_ttl"`
	DiskTTL   time.Duration `mapstructure:"disk_ttl" yaml:"disk_ttl"`
}

// StoreConfig configures the local snapshot database
type StoreConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"` // empty = ~/.scout/data
}

// ServerConfig configures `scout serve`
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	Mode string `mapstructure:"mode" yaml:"mode"` // gin mode: debug, release, test
}

// ConcurrencyConfig configures batch extraction
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// OutputConfig configures CLI output
type OutputConfig struct {
	Format  string `mapstructure:"format" yaml:"format"` // json or yaml
	Verbose bool   `mapstructure:"verbose" yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:           "http://localhost:3000",
			Timeout:           30 * time.Second,
			UserAgent:         "scout/0.3 (+https://github.com/ppiankov/scout)",
			RequestsPerSecond: 5,
			Burst:             5,
		},
		LLM: LLMConfig{
			Provider:  "", // disabled
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 800,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Addr: ":8088",
			Mode: "release",
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}
