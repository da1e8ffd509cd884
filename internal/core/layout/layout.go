// Package layout renders a recipe collection in the fixed text layout used by
// recipes.json: every recipe field on its own line, ingredients always last and
// one ingredient object per line.
package layout

import (
	"bytes"
	"fmt"
	"io"

	"recipe-normalizer/internal/core/recipe"
	"recipe-normalizer/internal/pkg/common"

	"github.com/tidwall/gjson"
)

// Layout 輸出格式設定
type Layout struct {
	RecipeIndent     string
	FieldIndent      string
	IngredientIndent string
	ItemSeparator    string
	KeySeparator     string
	Newline          string
}

// Default recipes.json 使用的格式
func Default() Layout {
	return Layout{
		RecipeIndent:     "  ",
		FieldIndent:      "    ",
		IngredientIndent: "      ",
		ItemSeparator:    ", ",
		KeySeparator:     ": ",
		Newline:          "\n",
	}
}

// Serializer 食譜集合序列化器
type Serializer struct {
	layout Layout
}

// NewSerializer 創建序列化器
func NewSerializer(l Layout) *Serializer {
	return &Serializer{layout: l}
}

// Format 將集合輸出為文字
func (s *Serializer) Format(c recipe.Collection) ([]byte, error) {
	var buf bytes.Buffer
	nl := s.layout.Newline

	buf.WriteString("[" + nl)
	for i, r := range c {
		if err := s.writeRecipe(&buf, i, r); err != nil {
			return nil, err
		}
		if i < len(c)-1 {
			buf.WriteString("," + nl)
		} else {
			buf.WriteString(nl)
		}
	}
	buf.WriteString("]" + nl)

	return buf.Bytes(), nil
}

// Write 將集合輸出到 w
func (s *Serializer) Write(w io.Writer, c recipe.Collection) error {
	data, err := s.Format(c)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	return nil
}

func (s *Serializer) writeRecipe(buf *bytes.Buffer, idx int, r recipe.Recipe) error {
	l := s.layout
	buf.WriteString(l.RecipeIndent + "{" + l.Newline)

	var ingredients gjson.Result
	for _, f := range r.Fields {
		if f.Key == recipe.IngredientsKey {
			ingredients = gjson.ParseBytes(f.Value)
			continue
		}
		buf.WriteString(l.FieldIndent)
		quote(buf, f.Key, true)
		buf.WriteString(l.KeySeparator)
		s.writeValue(buf, gjson.ParseBytes(f.Value), false)
		buf.WriteString("," + l.Newline)
	}

	// 食材清單一律放在最後，沒有食材欄位時輸出空陣列
	buf.WriteString(l.FieldIndent)
	quote(buf, recipe.IngredientsKey, true)
	buf.WriteString(l.KeySeparator + "[" + l.Newline)

	if ingredients.Exists() {
		if !ingredients.IsArray() {
			return &common.TypeMismatchError{Recipe: idx, Field: recipe.IngredientsKey, Want: "array", Got: ingredients.Type.String()}
		}
		items := ingredients.Array()
		for j, item := range items {
			buf.WriteString(l.IngredientIndent)
			s.writeValue(buf, item, true)
			if j < len(items)-1 {
				buf.WriteByte(',')
			}
			buf.WriteString(l.Newline)
		}
	}

	buf.WriteString(l.FieldIndent + "]" + l.Newline)
	buf.WriteString(l.RecipeIndent + "}")
	return nil
}
