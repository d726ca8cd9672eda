package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdex/internal/core/domain"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults when no config file exists", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		require.NoError(t, err)

		assert.Equal(t, DefaultCollection, cfg.Collection)
		assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
		assert.Equal(t, DefaultChunkOverlap, cfg.ChunkOverlap)
		assert.Equal(t, DefaultWorkers, cfg.Workers)
		assert.Equal(t, DefaultFileTimeout, cfg.FileTimeout)
		assert.Equal(t, "ollama", cfg.Embedding.Provider)
		assert.Equal(t, "sqlite", cfg.VectorStore.Driver)
		assert.Contains(t, cfg.Extensions, ".pdf")
		assert.NotEmpty(t, cfg.DataDir)
	})

	t.Run("reads values from TOML file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		content := `
source_dir = "/srv/docs"
collection = "papers"
chunk_size = 512
chunk_overlap = 64
recursive = true
file_timeout = "30s"

[embedding]
provider = "openai"
model = "text-embedding-3-small"

[vector_store]
driver = "pgvector"
dsn = "postgres://localhost/docdex"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "/srv/docs", cfg.SourceDir)
		assert.Equal(t, "papers", cfg.Collection)
		assert.Equal(t, 512, cfg.ChunkSize)
		assert.Equal(t, 64, cfg.ChunkOverlap)
		assert.True(t, cfg.Recursive)
		assert.Equal(t, 30*time.Second, cfg.FileTimeout)
		assert.Equal(t, "openai", cfg.Embedding.Provider)
		assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
		assert.Equal(t, "pgvector", cfg.VectorStore.Driver)
	})

	t.Run("environment variables override file values", func(t *testing.T) {
		t.Setenv("DOCDEX_SOURCE_DIR", "/env/docs")
		t.Setenv("DOCDEX_CHUNK_SIZE", "256")
		t.Setenv("DOCDEX_EMBEDDING_PROVIDER", "openai")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "/env/docs", cfg.SourceDir)
		assert.Equal(t, 256, cfg.ChunkSize)
		assert.Equal(t, "openai", cfg.Embedding.Provider)
	})

	t.Run("ignores malformed numeric env values", func(t *testing.T) {
		t.Setenv("DOCDEX_CHUNK_SIZE", "not-a-number")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	})

	t.Run("rejects invalid TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("chunk_size = ["), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		return &Config{
			SourceDir:    t.TempDir(),
			ChunkSize:    100,
			ChunkOverlap: 20,
			Workers:      2,
		}
	}

	t.Run("accepts a valid configuration", func(t *testing.T) {
		assert.NoError(t, valid(t).Validate())
	})

	t.Run("rejects missing source directory", func(t *testing.T) {
		cfg := valid(t)
		cfg.SourceDir = ""

		err := cfg.Validate()
		assert.ErrorIs(t, err, domain.ErrSourceDirInvalid)
	})

	t.Run("rejects nonexistent source directory", func(t *testing.T) {
		cfg := valid(t)
		cfg.SourceDir = filepath.Join(t.TempDir(), "nope")

		err := cfg.Validate()
		assert.ErrorIs(t, err, domain.ErrSourceDirInvalid)
	})

	t.Run("rejects source path that is a file", func(t *testing.T) {
		cfg := valid(t)
		file := filepath.Join(t.TempDir(), "a.pdf")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
		cfg.SourceDir = file

		err := cfg.Validate()
		assert.ErrorIs(t, err, domain.ErrSourceDirInvalid)
	})

	t.Run("rejects overlap larger than chunk size", func(t *testing.T) {
		cfg := valid(t)
		cfg.ChunkOverlap = 100

		err := cfg.Validate()
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
