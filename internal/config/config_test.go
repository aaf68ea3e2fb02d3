package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithEnvVars(t *testing.T) {
	os.Setenv("QUARRY_PORT", "9090")
	os.Setenv("QUARRY_DEBUG", "true")
	os.Setenv("QUARRY_DATA_DIR", "/var/lib/quarry")
	os.Setenv("QUARRY_OPENAI_API_KEY", "sk-test")
	os.Setenv("QUARRY_TAVILY_API_KEY", "tvly-test")
	os.Setenv("QUARRY_EMBEDDING_MODEL", "text-embedding-3-small")
	os.Setenv("QUARRY_EMBEDDING_DIMENSIONS", "512")
	os.Setenv("QUARRY_WEB_TIMEOUT", "5s")
	defer func() {
		os.Unsetenv("QUARRY_PORT")
		os.Unsetenv("QUARRY_DEBUG")
		os.Unsetenv("QUARRY_DATA_DIR")
		os.Unsetenv("QUARRY_OPENAI_API_KEY")
		os.Unsetenv("QUARRY_TAVILY_API_KEY")
		os.Unsetenv("QUARRY_EMBEDDING_MODEL")
		os.Unsetenv("QUARRY_EMBEDDING_DIMENSIONS")
		os.Unsetenv("QUARRY_WEB_TIMEOUT")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/var/lib/quarry", cfg.DataDir)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "tvly-test", cfg.TavilyAPIKey)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, 512, cfg.EmbeddingDimensions)
	assert.Equal(t, 5*time.Second, cfg.WebTimeout)
	assert.True(t, cfg.HasOpenAI())
	assert.True(t, cfg.HasTavily())
	assert.False(t, cfg.HasS3())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "text-embedding-ada-002", cfg.EmbeddingModel)
	assert.Equal(t, 1536, cfg.EmbeddingDimensions)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.SearchTopK)
	assert.Equal(t, 3, cfg.SummaryTopN)
	assert.Equal(t, 3, cfg.TavilyMaxResults)
	assert.Equal(t, "quarry-documents", cfg.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.False(t, cfg.HasAPIKey())
}

func TestLoad_RejectsOverlapLargerThanSize(t *testing.T) {
	os.Setenv("QUARRY_CHUNK_SIZE", "100")
	os.Setenv("QUARRY_CHUNK_OVERLAP", "100")
	defer func() {
		os.Unsetenv("QUARRY_CHUNK_SIZE")
		os.Unsetenv("QUARRY_CHUNK_OVERLAP")
	}()

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
}
