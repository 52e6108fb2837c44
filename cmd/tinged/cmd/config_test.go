package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinge-ai/retrieval/internal/config"
)

func TestConfigInitWritesLoadableTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinged.yaml")

	out, err := runCLI(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tinge_knowledge_v1", cfg.Index.Name)
	assert.Equal(t, 60, cfg.Search.RRFConstant)
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinged.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))

	_, err := runCLI(t, "config", "init", "--output", path)
	require.Error(t, err)

	_, err = runCLI(t, "config", "init", "--output", path, "--force")
	require.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	configFile, _ := writeTestConfig(t)

	out, err := runCLI(t, "config", "show", "--config", configFile)
	require.NoError(t, err)
	assert.Contains(t, out, "tinge_test_v1")
}
