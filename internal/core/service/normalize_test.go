package service

import (
	"errors"
	"testing"

	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/infrastructure/storage"
	"recipe-normalizer/internal/pkg/common"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const collectionPath = "/app/recipes.json"

func newTestPipeline(t *testing.T, content []byte, cfg *config.Config) (*Pipeline, afero.Fs) {
	t.Helper()
	memFs := afero.NewMemMapFs()
	if content != nil {
		require.NoError(t, afero.WriteFile(memFs, collectionPath, content, 0o644))
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.Collection.Path = collectionPath

	p, err := NewPipeline(cfg, storage.NewFileStoreWithFs(memFs), nil)
	require.NoError(t, err)
	return p, memFs
}

func readCollection(t *testing.T, fsys afero.Fs) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, collectionPath)
	require.NoError(t, err)
	return string(data)
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	input := `[{"ingredients":[{"name":"Beef Stock","amount":"2 Cups"},{"name":"Chicken Stock","amount":"1 Cup"}],"title":"Stew"},{"title":"Toast"}]`
	p, memFs := newTestPipeline(t, []byte(input), nil)

	result, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Recipes)
	assert.Equal(t, 2, result.Ingredients)

	want := `[
  {
    "title": "Stew",
    "ingredients": [
      {"name": "stock", "amount": "2 cups"},
      {"name": "chicken stock", "amount": "1 cup"}
    ]
  },
  {
    "title": "Toast",
    "ingredients": [
    ]
  }
]
`
	assert.Equal(t, want, readCollection(t, memFs))
	assert.Equal(t, len(want), result.Bytes)
}

func TestPipelineIsIdempotent(t *testing.T) {
	t.Parallel()

	input := `[{"name":"Pancakes","ingredients":[{"name":"All-Purpose Flour","amount":"1 Cup"},{"name":"White Sugar","amount":"2 Tbsp"}],"instructions":"Mix, then fry.","id":1}]`
	p, memFs := newTestPipeline(t, []byte(input), nil)

	_, err := p.Run()
	require.NoError(t, err)
	once := readCollection(t, memFs)

	_, err = p.Run()
	require.NoError(t, err)
	assert.Equal(t, once, readCollection(t, memFs))
}

func TestPipelineFailuresLeaveFileUntouched(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		check   func(t *testing.T, err error)
	}{
		{
			name:    "empty file",
			content: []byte{},
			check: func(t *testing.T, err error) {
				var target *common.EmptyInputError
				assert.True(t, errors.As(err, &target))
			},
		},
		{
			name:    "malformed json",
			content: []byte(`[{"title": "Stew",]`),
			check: func(t *testing.T, err error) {
				var target *common.ParseError
				assert.True(t, errors.As(err, &target))
			},
		},
		{
			name:    "ingredient without amount",
			content: []byte(`[{"title":"Stew","ingredients":[{"name":"Beef Stock"}]}]`),
			check: func(t *testing.T, err error) {
				var target *common.MissingFieldError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "amount", target.Field)
			},
		},
		{
			name:    "numeric ingredient name",
			content: []byte(`[{"ingredients":[{"name":7,"amount":"1"}]}]`),
			check: func(t *testing.T, err error) {
				var target *common.TypeMismatchError
				assert.True(t, errors.As(err, &target))
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, memFs := newTestPipeline(t, tc.content, nil)

			_, err := p.Run()
			require.Error(t, err)
			tc.check(t, err)
			assert.Equal(t, string(tc.content), readCollection(t, memFs))
		})
	}
}

func TestPipelineMissingFile(t *testing.T) {
	t.Parallel()
	p, memFs := newTestPipeline(t, nil, nil)

	_, err := p.Run()
	var target *common.NotFoundError
	require.True(t, errors.As(err, &target))

	exists, err := afero.Exists(memFs, collectionPath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPipelineUsesConfiguredReplacements(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Replacements: []config.ReplacementConfig{{From: "beef stock", To: "broth"}}}
	p, memFs := newTestPipeline(t, []byte(`[{"ingredients":[{"name":"Beef Stock","amount":"1 L"},{"name":"Olive Oil","amount":"1 tbsp"}]}]`), cfg)

	_, err := p.Run()
	require.NoError(t, err)

	out := readCollection(t, memFs)
	assert.Contains(t, out, `{"name": "broth", "amount": "1 l"},`)
	assert.Contains(t, out, `{"name": "olive oil", "amount": "1 tbsp"}`)
}

func TestNewPipelineRejectsBadReplacements(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Replacements: []config.ReplacementConfig{{From: "Beef Stock", To: "stock"}}}
	_, err := NewPipeline(cfg, storage.NewFileStoreWithFs(afero.NewMemMapFs()), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid replacements")
}
