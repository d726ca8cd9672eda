// Package config loads docdex configuration from a TOML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

// Default tuning values.
const (
	DefaultCollection   = "default"
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultWorkers      = 4
	DefaultFileTimeout  = 2 * time.Minute
)

// DefaultExtensions are the file extensions scanned by default.
func DefaultExtensions() []string {
	return []string{".pdf", ".txt", ".md", ".docx", ".html"}
}

// Config holds all docdex settings.
type Config struct {
	// SourceDir is the directory of source documents to index.
	SourceDir string `toml:"source_dir"`

	// DataDir holds persisted metadata, the lock file and the local
	// vector store. Created on load if absent.
	DataDir string `toml:"data_dir"`

	// Collection names the target knowledge base.
	Collection string `toml:"collection"`

	// Recursive scans the source directory recursively when true.
	Recursive bool `toml:"recursive"`

	// Extensions are the eligible file extensions. Files with other
	// extensions are silently ignored.
	Extensions []string `toml:"extensions"`

	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive text chunks.
	ChunkOverlap int `toml:"chunk_overlap"`

	// Workers bounds parallel file extraction within the extracting stage.
	Workers int `toml:"workers"`

	// FileTimeout bounds extraction and hashing per file, so one
	// malformed file cannot stall a run.
	FileTimeout time.Duration `toml:"file_timeout"`

	// Embedding configures the embedding provider.
	Embedding EmbeddingConfig `toml:"embedding"`

	// VectorStore configures the vector store collaborator.
	VectorStore VectorStoreConfig `toml:"vector_store"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`

	// BaseURL overrides the provider API base URL.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// APIKey authenticates cloud providers. Usually set via env.
	APIKey string `toml:"api_key"`

	// Dimensions is the embedding vector size. Zero uses the model default.
	Dimensions int `toml:"dimensions"`
}

// VectorStoreConfig selects the vector store driver.
type VectorStoreConfig struct {
	// Driver is "sqlite" (default, local file) or "pgvector".
	Driver string `toml:"driver"`

	// DSN is the Postgres connection string for the pgvector driver.
	DSN string `toml:"dsn"`
}

// Load reads config.toml from configPath if present, applies defaults,
// then applies environment overrides. A missing config file is not an
// error; the defaults plus environment are a complete configuration.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Collection:   DefaultCollection,
		Extensions:   DefaultExtensions(),
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		Workers:      DefaultWorkers,
		FileTimeout:  DefaultFileTimeout,
		Embedding:    EmbeddingConfig{Provider: "ollama"},
		VectorStore:  VectorStoreConfig{Driver: "sqlite"},
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
		case os.IsNotExist(err):
			// Defaults apply.
		default:
			return nil, fmt.Errorf("read %s: %w", configPath, err)
		}
	}

	cfg.applyEnv()

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".docdex")
	}

	return cfg, nil
}

// applyEnv overrides config values from DOCDEX_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOCDEX_SOURCE_DIR"); v != "" {
		c.SourceDir = v
	}
	if v := os.Getenv("DOCDEX_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("DOCDEX_COLLECTION"); v != "" {
		c.Collection = v
	}
	if v := os.Getenv("DOCDEX_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ChunkSize = n
		}
	}
	if v := os.Getenv("DOCDEX_CHUNK_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.ChunkOverlap = n
		}
	}
	if v := os.Getenv("DOCDEX_EMBEDDING_PROVIDER"); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv("DOCDEX_EMBEDDING_BASE_URL"); v != "" {
		c.Embedding.BaseURL = v
	}
	if v := os.Getenv("DOCDEX_EMBEDDING_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("DOCDEX_API_KEY"); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv("DOCDEX_VECTOR_DRIVER"); v != "" {
		c.VectorStore.Driver = v
	}
	if v := os.Getenv("DOCDEX_VECTOR_DSN"); v != "" {
		c.VectorStore.DSN = v
	}
}

// Validate checks the configuration before any stage starts.
// A missing or invalid source directory is a hard failure.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("%w: source directory not configured", domain.ErrSourceDirInvalid)
	}
	info, err := os.Stat(c.SourceDir)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSourceDirInvalid, c.SourceDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrSourceDirInvalid, c.SourceDir)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive", domain.ErrInvalidInput)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, chunk_size)", domain.ErrInvalidInput)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", domain.ErrInvalidInput)
	}
	return nil
}

// EnsureDataDir creates the data directory if it does not exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o700)
}
