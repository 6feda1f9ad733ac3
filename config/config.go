package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Database struct {
		ConnectionString string `yaml:"connection_string"`
		Table            string `yaml:"table"`
	} `yaml:"database"`
	Embeddings struct {
		Provider          string        `yaml:"provider"`
		Model             string        `yaml:"model"`
		TaskType          string        `yaml:"task_type"`
		APIKey            string        `yaml:"api_key"`
		BaseURL           string        `yaml:"base_url"`
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
		Burst             int           `yaml:"burst"`
		Normalize         bool          `yaml:"normalize"`
	} `yaml:"embeddings"`
	Ollama struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"ollama"`
	Chunking struct {
		HeaderMarker string `yaml:"header_marker"`
	} `yaml:"chunking"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"logging"`
}

// Provider names accepted in embeddings.provider.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// DefaultPath returns the config file location under the user's home directory.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".menu-ingest", "config.yaml")
}

// Load loads configuration from file or returns defaults. A .env file in the
// working directory is loaded first and environment variables override the file.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save saves configuration to path, creating its directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	cfg.Database.ConnectionString = "postgres://postgres@localhost/embeddings?sslmode=disable"
	cfg.Database.Table = "menu"
	cfg.Embeddings.Provider = ProviderGemini
	cfg.Embeddings.Model = "gemini-embedding-001"
	cfg.Embeddings.TaskType = "SEMANTIC_SIMILARITY"
	cfg.Embeddings.BaseURL = "https://generativelanguage.googleapis.com"
	cfg.Embeddings.Timeout = 30 * time.Second
	cfg.Embeddings.RequestsPerSecond = 0
	cfg.Embeddings.Burst = 1
	cfg.Ollama.BaseURL = "http://localhost:11434"
	cfg.Chunking.HeaderMarker = "##"
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "console"

	return cfg
}

// Validate reports configuration that cannot produce a working pipeline.
func (c *Config) Validate() error {
	switch c.Embeddings.Provider {
	case ProviderGemini:
		if c.Embeddings.APIKey == "" {
			return errors.New("embeddings.api_key (or GOOGLE_API_KEY) is required for the gemini provider")
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unknown embeddings provider %q", c.Embeddings.Provider)
	}
	if c.Embeddings.Model == "" {
		return errors.New("embeddings.model must not be empty")
	}
	if strings.TrimSpace(c.Database.Table) == "" {
		return errors.New("database.table must not be empty")
	}
	if strings.TrimSpace(c.Chunking.HeaderMarker) == "" {
		return errors.New("chunking.header_marker must not be empty")
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Database.ConnectionString = getEnv("DATABASE_URL", c.Database.ConnectionString)
	c.Database.Table = getEnv("MENU_TABLE", c.Database.Table)
	c.Embeddings.Provider = getEnv("EMBEDDING_PROVIDER", c.Embeddings.Provider)
	c.Embeddings.Model = getEnv("EMBEDDING_MODEL", c.Embeddings.Model)
	c.Embeddings.APIKey = getEnv("GEMINI_API_KEY", c.Embeddings.APIKey)
	c.Embeddings.APIKey = getEnv("GOOGLE_API_KEY", c.Embeddings.APIKey)
	c.Embeddings.BaseURL = getEnv("GEMINI_BASE_URL", c.Embeddings.BaseURL)
	c.Embeddings.RequestsPerSecond = getEnvAsFloat("EMBEDDING_RPS", c.Embeddings.RequestsPerSecond)
	c.Ollama.BaseURL = getEnv("OLLAMA_BASE_URL", c.Ollama.BaseURL)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.File = getEnv("LOG_FILE", c.Logging.File)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}
