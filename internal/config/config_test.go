package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "regex", cfg.Segmenter.Type)
	require.NotNil(t, cfg.Ranker.TopK)
	assert.Equal(t, 12, *cfg.Ranker.TopK)
	assert.Equal(t, 0.85, cfg.Ranker.Damping)
	assert.Equal(t, 1e-6, cfg.Ranker.Tolerance)
	assert.Equal(t, 100, cfg.Ranker.MaxIterations)
	assert.Equal(t, 2000, cfg.Ranker.MaxSentences)
	assert.Equal(t, "score", cfg.Ranker.Order)
	assert.True(t, cfg.Ranker.StopwordsEnabled())
	assert.Equal(t, "frequency", cfg.Generator.Type)
	assert.Nil(t, cfg.Generator.OpenAI)
	require.NoError(t, cfg.Validate())
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /srv/docs
ranker:
  top_k: 5
  order: document
  stopwords: false
generator:
  type: openai
  openai:
    model: llama3
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/docs", cfg.DataDir)
	require.NotNil(t, cfg.Ranker.TopK)
	assert.Equal(t, 5, *cfg.Ranker.TopK)
	assert.Equal(t, "document", cfg.Ranker.Order)
	assert.False(t, cfg.Ranker.StopwordsEnabled())
	assert.Equal(t, 0.85, cfg.Ranker.Damping)
	require.NotNil(t, cfg.Generator.OpenAI)
	assert.Equal(t, "llama3", cfg.Generator.OpenAI.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Generator.OpenAI.APIKeyEnv)
	assert.Equal(t, 60, cfg.Generator.OpenAI.TimeoutSecs)
}

func TestLoadKeepsExplicitZeroTopK(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ranker:\n  top_k: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Ranker.TopK)
	assert.Zero(t, *cfg.Ranker.TopK)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"damping", "ranker:\n  damping: 1.5\n"},
		{"negative tolerance", "ranker:\n  tolerance: -1\n"},
		{"order", "ranker:\n  order: random\n"},
		{"negative top_k", "ranker:\n  top_k: -1\n"},
		{"segmenter", "segmenter:\n  type: spacy\n"},
		{"generator", "generator:\n  type: bart\n"},
		{"malformed", "ranker: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Ranker.Workers = 4
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
