package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/tinge-ai/retrieval/internal/errors"
)

func writeCorpus(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.jsonl"))
	require.Error(t, err)
	assert.Equal(t, rerrors.ErrCodeCorpusNotFound, rerrors.GetCode(err))
}

func TestLoad_ValidRecords(t *testing.T) {
	path := writeCorpus(t, `
{"id":"doc-1","title":"Sagrada Familia","url":"https://example.org/1","source":"wikipedia","language":"en","published_at":"2024-01-15","content":"Gaudi's basilica."}

{"id":"doc-2","title":"Parque Guell","source":"wikipedia","language":"es","content":"Un parque en Barcelona."}
`)

	docs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "doc-1", docs[0].ID)
	assert.Equal(t, "Sagrada Familia", docs[0].Title)
	assert.Equal(t, "2024-01-15", docs[0].PublishedAt)
	assert.Equal(t, "es", docs[1].Language)
	assert.Empty(t, docs[1].PublishedAt)
}

func TestLoad_BlankLinesSkipped(t *testing.T) {
	path := writeCorpus(t, "\n\n{\"id\":\"a\",\"content\":\"x\"}\n   \n")

	docs, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestLoad_MalformedLineIsHardStop(t *testing.T) {
	path := writeCorpus(t, `{"id":"a","content":"x"}
{not json}
{"id":"b","content":"y"}
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, rerrors.ErrCodeCorpusParse, rerrors.GetCode(err))
	assert.Contains(t, err.Error(), ":2:")
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing id", `{"content":"x"}`},
		{"missing content", `{"id":"a"}`},
		{"empty id", `{"id":"","content":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCorpus(t, tt.line+"\n"))
			require.Error(t, err)
			assert.Equal(t, rerrors.ErrCodeCorpusParse, rerrors.GetCode(err))
			assert.Contains(t, err.Error(), ":1:")
		})
	}
}

func TestLoad_LanguageDefaultsToEnglish(t *testing.T) {
	docs, err := Load(writeCorpus(t, `{"id":"a","content":"x"}`))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "en", docs[0].Language)
}

func TestLoad_EmptyFile(t *testing.T) {
	docs, err := Load(writeCorpus(t, ""))
	require.NoError(t, err)
	assert.Empty(t, docs)
}
