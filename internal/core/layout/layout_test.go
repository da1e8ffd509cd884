package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"recipe-normalizer/internal/core/recipe"
	"recipe-normalizer/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) recipe.Collection {
	t.Helper()
	c, err := recipe.Decode([]byte(s))
	require.NoError(t, err)
	return c
}

func format(t *testing.T, c recipe.Collection) string {
	t.Helper()
	out, err := NewSerializer(Default()).Format(c)
	require.NoError(t, err)
	return string(out)
}

func TestFormatExactLayout(t *testing.T) {
	t.Parallel()

	c := decode(t, `[
		{"ingredients":[{"name":"stock","amount":"2 cups"},{"name":"salt","amount":"1 tsp"}],"title":"Stew","servings":4},
		{"title":"Toast","tags":["quick","bread"],"meta":{"a":1,"b":[true,null]}}
	]`)

	want := `[
  {
    "title": "Stew",
    "servings": 4,
    "ingredients": [
      {"name": "stock", "amount": "2 cups"},
      {"name": "salt", "amount": "1 tsp"}
    ]
  },
  {
    "title": "Toast",
    "tags": ["quick", "bread"],
    "meta": {"a": 1, "b": [true, null]},
    "ingredients": [
    ]
  }
]
`
	assert.Equal(t, want, format(t, c))
}

func TestFormatIngredientsOnlyRecipe(t *testing.T) {
	t.Parallel()

	c := decode(t, `[{"ingredients":[{"name":"oil","amount":"1 tbsp"}]}]`)

	want := "[\n  {\n    \"ingredients\": [\n      {\"name\": \"oil\", \"amount\": \"1 tbsp\"}\n    ]\n  }\n]\n"
	assert.Equal(t, want, format(t, c))
}

func TestFormatEmptyCollection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[\n]\n", format(t, recipe.Collection{}))
}

func TestFormatEscaping(t *testing.T) {
	t.Parallel()

	c := decode(t, `[{"título":"Crème brûlée <b>","note":"a\"b\\c\nd\u0001","ingredients":[{"name":"crème","amount":"½ cup 🍚"}]}]`)

	want := `[
  {
    "t\u00edtulo": "Crème brûlée <b>",
    "note": "a\"b\\c\nd\u0001",
    "ingredients": [
      {"name": "cr\u00e8me", "amount": "\u00bd cup \ud83c\udf5a"}
    ]
  }
]
`
	assert.Equal(t, want, format(t, c))
}

func TestFormatLoneSurrogates(t *testing.T) {
	t.Parallel()

	input := `[{"note":"\ud800\u0041B","meta":{"k\udc00\u0043":"\ud800\u0044"},"ingredients":[{"name":"\ud800\u0041B","amount":"1"}]}]`
	out := format(t, decode(t, input))

	want := "[\n" +
		"  {\n" +
		"    \"note\": \"\ufffdAB\",\n" +
		"    \"meta\": {\"k\ufffdC\": \"\ufffdD\"},\n" +
		"    \"ingredients\": [\n" +
		"      {\"name\": \"\\ufffdAB\", \"amount\": \"1\"}\n" +
		"    ]\n" +
		"  }\n" +
		"]\n"
	assert.Equal(t, want, out)

	var got, src []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NoError(t, json.Unmarshal([]byte(input), &src))
	assert.Equal(t, src, got)
}

func TestFormatKeepsNumbersVerbatim(t *testing.T) {
	t.Parallel()

	c := decode(t, `[{"rating":4.50,"big":1e3,"neg":-0,"ingredients":[]}]`)
	out := format(t, c)

	assert.Contains(t, out, `"rating": 4.50,`)
	assert.Contains(t, out, `"big": 1e3,`)
	assert.Contains(t, out, `"neg": -0,`)
}

func TestFormatRoundTrip(t *testing.T) {
	t.Parallel()

	in := decode(t, `[
		{"id":1,"name":"Pancakes","image":"http://x/p.png","ingredients":[{"name":"flour","amount":"1 cup"}],"instructions":"Mix."},
		{"id":2,"name":"Salad","ingredients":[]},
		{"ingredients":[{"name":"water","amount":"1 l"}]}
	]`)

	out, err := NewSerializer(Default()).Format(in)
	require.NoError(t, err)

	var got, want []map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	canonical, err := json.Marshal(in)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(canonical, &want))
	assert.Equal(t, want, got)

	again, err := recipe.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "ingredients", again[0].Fields[len(again[0].Fields)-1].Key)

	second, err := NewSerializer(Default()).Format(again)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(second))
}

func TestFormatRejectsNonArrayIngredients(t *testing.T) {
	t.Parallel()

	_, err := NewSerializer(Default()).Format(decode(t, `[{"ingredients":"salt"}]`))
	require.Error(t, err)

	var mismatch *common.TypeMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 0, mismatch.Recipe)
}

func TestFormatCustomLayout(t *testing.T) {
	t.Parallel()

	l := Layout{
		RecipeIndent:     "\t",
		FieldIndent:      "\t\t",
		IngredientIndent: "\t\t\t",
		ItemSeparator:    ",",
		KeySeparator:     ":",
		Newline:          "\n",
	}
	c := decode(t, `[{"tags":["a","b"],"ingredients":[{"name":"x","amount":"y"}]}]`)

	var buf bytes.Buffer
	require.NoError(t, NewSerializer(l).Write(&buf, c))

	want := "[\n\t{\n\t\t\"tags\":[\"a\",\"b\"],\n\t\t\"ingredients\":[\n\t\t\t{\"name\":\"x\",\"amount\":\"y\"}\n\t\t]\n\t}\n]\n"
	assert.Equal(t, want, buf.String())
}
