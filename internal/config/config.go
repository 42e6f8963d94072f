// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/jonathan/smart-applier/internal/embedding"
	"github.com/jonathan/smart-applier/internal/llm"
	"github.com/jonathan/smart-applier/internal/vectorindex"
)

// appName names the per-user data directory
const appName = "smart-applier"

// Config is the application configuration, loaded from a JSON or TOML file.
// All fields are optional; missing values are filled by MergeWithDefaults.
type Config struct {
	// Storage
	Store       string `json:"store,omitempty" toml:"store"`               // memory, sqlite or postgres
	DataDir     string `json:"data_dir,omitempty" toml:"data_dir"`         // Base directory for local data
	DatabaseURL string `json:"database_url,omitempty" toml:"database_url"` // PostgreSQL connection URL

	// Models
	Embedding    embedding.Config `json:"embedding" toml:"embedding"`
	Index        vectorindex.Kind `json:"index,omitempty" toml:"index"`
	GeminiAPIKey string           `json:"gemini_api_key,omitempty" toml:"gemini_api_key"`
	OpenAIAPIKey string           `json:"openai_api_key,omitempty" toml:"openai_api_key"`
	// Generative model per tier ("lite", "standard", "advanced")
	LLMModels map[string]string `json:"llm_models,omitempty" toml:"llm_models"`

	// Analysis
	TopK            int     `json:"top_k,omitempty" toml:"top_k"`                       // Jobs returned by a match
	TopN            int     `json:"top_n,omitempty" toml:"top_n"`                       // Missing skills reported
	GapThreshold    float64 `json:"gap_threshold,omitempty" toml:"gap_threshold"`       // Similarity below which a skill is missing
	TailorThreshold float64 `json:"tailor_threshold,omitempty" toml:"tailor_threshold"` // Similarity at which a keyword is covered
	DisableRewrite  bool    `json:"disable_rewrite,omitempty" toml:"disable_rewrite"`   // Skip the generative profile rewrite
	Template        string  `json:"template,omitempty" toml:"template"`                 // Path to LaTeX template

	Server ServerConfig `json:"server" toml:"server"`
	S3     S3Config     `json:"s3" toml:"s3"`

	Verbose bool `json:"verbose,omitempty" toml:"verbose"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port           int      `json:"port,omitempty" toml:"port"`
	RateLimit      float64  `json:"rate_limit,omitempty" toml:"rate_limit"` // requests per second per client
	RateBurst      int      `json:"rate_burst,omitempty" toml:"rate_burst"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" toml:"allowed_origins"`
}

// S3Config names the bucket resume documents are uploaded to. Blob storage
// is disabled when Bucket is empty.
type S3Config struct {
	Bucket    string `json:"bucket,omitempty" toml:"bucket"`
	Region    string `json:"region,omitempty" toml:"region"`
	Endpoint  string `json:"endpoint,omitempty" toml:"endpoint"`
	Prefix    string `json:"prefix,omitempty" toml:"prefix"`
	AccessKey string `json:"-" toml:"-"`
	SecretKey string `json:"-" toml:"-"`
}

// DataLocations holds every filesystem path the application uses. It is
// built once at startup and passed to constructors.
type DataLocations struct {
	BaseDir      string
	DatabasePath string
	ExportDir    string
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Store:           "sqlite",
		Embedding:       embedding.Config{Backend: embedding.BackendHash},
		Index:           vectorindex.KindFlat,
		TopK:            10,
		TopN:            5,
		GapThreshold:    0.5,
		TailorThreshold: 0.45,
		Server: ServerConfig{
			Port:      8080,
			RateLimit: 5,
			RateBurst: 10,
		},
	}
}

// LoadConfig loads configuration from a JSON file, or a TOML file when the
// extension is .toml.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
		return &cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Store {
	case "", "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("config error: unknown store %q", c.Store)
	}
	if c.Store == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required for the postgres store")
	}

	switch c.Embedding.Backend {
	case "", embedding.BackendHash, embedding.BackendGemini, embedding.BackendOpenAI:
	default:
		return fmt.Errorf("config error: unknown embedding backend %q", c.Embedding.Backend)
	}
	if c.Embedding.Dimension < 0 || c.Embedding.CacheSize < 0 {
		return fmt.Errorf("config error: embedding dimension and cache size must be non-negative")
	}

	if _, err := c.LLMConfig(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	switch c.Index {
	case "", vectorindex.KindFlat, vectorindex.KindChromem:
	default:
		return fmt.Errorf("config error: unknown index %q", c.Index)
	}

	// Validate numeric ranges
	if c.TopK < 0 {
		return fmt.Errorf("config error: 'top_k' must be non-negative")
	}
	if c.TopN < 0 {
		return fmt.Errorf("config error: 'top_n' must be non-negative")
	}
	if c.GapThreshold < -1 || c.GapThreshold > 1 {
		return fmt.Errorf("config error: 'gap_threshold' must be within [-1, 1]")
	}
	if c.TailorThreshold < -1 || c.TailorThreshold > 1 {
		return fmt.Errorf("config error: 'tailor_threshold' must be within [-1, 1]")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("config error: rate limits must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
// Bool fields are left alone since unset and false cannot be told apart.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Embedding.Backend == "" {
		result.Embedding.Backend = defaults.Embedding.Backend
	}
	if result.Embedding.Model == "" {
		result.Embedding.Model = defaults.Embedding.Model
	}
	if result.Index == "" {
		result.Index = defaults.Index
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.OpenAIAPIKey == "" {
		result.OpenAIAPIKey = defaults.OpenAIAPIKey
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}

	// Numeric fields: use default if zero
	if result.Embedding.Dimension == 0 {
		result.Embedding.Dimension = defaults.Embedding.Dimension
	}
	if result.Embedding.CacheSize == 0 {
		result.Embedding.CacheSize = defaults.Embedding.CacheSize
	}
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}
	if result.GapThreshold == 0 {
		result.GapThreshold = defaults.GapThreshold
	}
	if result.TailorThreshold == 0 {
		result.TailorThreshold = defaults.TailorThreshold
	}
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.RateLimit == 0 {
		result.Server.RateLimit = defaults.Server.RateLimit
	}
	if result.Server.RateBurst == 0 {
		result.Server.RateBurst = defaults.Server.RateBurst
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if result.S3.Bucket == "" {
		result.S3 = defaults.S3
	}

	return result
}

// ApplyEnv fills unset secrets and connection settings from the environment
// through lookup (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if *dst != "" {
			return
		}
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	set(&c.GeminiAPIKey, "GEMINI_API_KEY")
	set(&c.GeminiAPIKey, "GOOGLE_API_KEY")
	set(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	set(&c.DatabaseURL, "DATABASE_URL")
	set(&c.DataDir, "SMART_APPLIER_DATA_DIR")
	set(&c.S3.Bucket, "S3_BUCKET")
	set(&c.S3.Region, "S3_REGION")
	set(&c.S3.Endpoint, "S3_ENDPOINT")
	set(&c.S3.AccessKey, "S3_ACCESS_KEY")
	set(&c.S3.SecretKey, "S3_SECRET_KEY")

	if c.Server.Port == 0 {
		if v, ok := lookup("PORT"); ok {
			if port, err := strconv.Atoi(v); err == nil {
				c.Server.Port = port
			}
		}
	}
}

// EmbeddingConfig returns the embedding settings with the API key of the
// selected backend filled in
func (c *Config) EmbeddingConfig() embedding.Config {
	cfg := c.Embedding
	switch cfg.Backend {
	case embedding.BackendGemini:
		cfg.APIKey = c.GeminiAPIKey
	case embedding.BackendOpenAI:
		cfg.APIKey = c.OpenAIAPIKey
	}
	return cfg
}

// LLMConfig returns the generative model settings with any per-tier model
// overrides applied
func (c *Config) LLMConfig() (*llm.Config, error) {
	return llm.DefaultConfig().WithOverrides(c.LLMModels)
}

// Locations resolves the data directory, defaulting to the XDG data home
func (c *Config) Locations() DataLocations {
	base := c.DataDir
	if base == "" {
		base = filepath.Join(xdg.DataHome, appName)
	}
	return DataLocations{
		BaseDir:      base,
		DatabasePath: filepath.Join(base, "smart_applier.db"),
		ExportDir:    filepath.Join(base, "exports"),
	}
}
