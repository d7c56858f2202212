package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Database struct {
		ConnectionString string `yaml:"connection_string"`
	} `yaml:"database"`
	OpenAI struct {
		BaseURL   string `yaml:"base_url"`
		APIKeyEnv string `yaml:"api_key_env"`
	} `yaml:"openai"`
	Models struct {
		Chat         string `yaml:"chat"`
		Embedding    string `yaml:"embedding"`
		EmbeddingDim int    `yaml:"embedding_dim"`
	} `yaml:"models"`
	Processing struct {
		ChunkSize    int `yaml:"chunk_size"`
		ChunkOverlap int `yaml:"chunk_overlap"`
		TopK         int `yaml:"top_k"`
	} `yaml:"processing"`
	Tickets struct {
		ConfidenceThreshold float64 `yaml:"confidence_threshold"`
		DuplicateWindowHrs  int     `yaml:"duplicate_window_hours"`
	} `yaml:"tickets"`
	DefaultUnit string `yaml:"default_unit"`
}

// Load loads configuration from file or returns defaults. Environment
// variables (the API key via the configured env name, OPENAI_BASE_URL,
// CHAT_MODEL, EMBED_MODEL, DATABASE_URL, CONFIDENCE_THRESHOLD) override
// the file on every load.
func Load() (*Config, error) {
	cfg := Default()

	configPath := filepath.Join(os.Getenv("HOME"), ".leasedesk", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save() error {
	configDir := filepath.Join(os.Getenv("HOME"), ".leasedesk")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// APIKey resolves the API key from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.OpenAI.APIKeyEnv)
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	cfg.Database.ConnectionString = "postgres://postgres@localhost/leasedesk?sslmode=disable"
	cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	cfg.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	cfg.Models.Chat = "gpt-4o-mini"
	cfg.Models.Embedding = "text-embedding-3-small"
	cfg.Models.EmbeddingDim = 1536
	cfg.Processing.ChunkSize = 1000
	cfg.Processing.ChunkOverlap = 150
	cfg.Processing.TopK = 4
	cfg.Tickets.ConfidenceThreshold = 0.8
	cfg.Tickets.DuplicateWindowHrs = 2
	cfg.DefaultUnit = "A-101"

	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.ConnectionString = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.OpenAI.BaseURL = v
	}
	if v := os.Getenv("CHAT_MODEL"); v != "" {
		c.Models.Chat = v
	}
	if v := os.Getenv("EMBED_MODEL"); v != "" {
		c.Models.Embedding = v
	}
	if v := os.Getenv("CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Tickets.ConfidenceThreshold = f
		}
	}
}
