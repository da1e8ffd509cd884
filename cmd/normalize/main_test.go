package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/infrastructure/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, content *string) (*config.Config, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.json")
	if content != nil {
		require.NoError(t, os.WriteFile(path, []byte(*content), 0o644))
	}
	return &config.Config{Collection: config.CollectionConfig{Path: path}}, path
}

func TestRunRewritesCollection(t *testing.T) {
	content := `[{"title":"Stew","ingredients":[{"name":"Beef Stock","amount":"2 Cups"}]}]`
	cfg, path := setup(t, &content)

	var stdout bytes.Buffer
	code := run(&stdout, cfg, storage.NewFileStore())

	assert.Equal(t, 0, code)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"title\": \"Stew\",\n    \"ingredients\": [\n      {\"name\": \"stock\", \"amount\": \"2 cups\"}\n    ]\n  }\n]\n", string(data))
}

func TestRunInputErrorsExitZero(t *testing.T) {
	empty := ""
	broken := "[{"

	tests := []struct {
		name    string
		content *string
		message string
	}{
		{name: "missing", content: nil, message: "File not found: "},
		{name: "empty", content: &empty, message: "File is empty: "},
		{name: "broken", content: &broken, message: "JSON decode error: "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, path := setup(t, tc.content)

			var stdout bytes.Buffer
			code := run(&stdout, cfg, storage.NewFileStore())

			assert.Equal(t, 0, code)
			assert.Contains(t, stdout.String(), tc.message)
			assert.Equal(t, 1, strings.Count(stdout.String(), "\n"))

			if tc.content != nil {
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, *tc.content, string(data))
			}
		})
	}
}

func TestRunDataErrorsExitOne(t *testing.T) {
	content := `[{"ingredients":[{"name":"Salt"}]}]`
	cfg, path := setup(t, &content)

	var stdout bytes.Buffer
	code := run(&stdout, cfg, storage.NewFileStore())

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), `recipe 0: ingredient 0 is missing "amount"`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}
