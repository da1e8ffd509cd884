package recipe

import (
	"encoding/json"
	"fmt"

	"recipe-normalizer/internal/pkg/common"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Normalizer 食材正規化器
type Normalizer struct {
	table ReplacementTable
}

// NewNormalizer 創建正規化器
func NewNormalizer(table ReplacementTable) *Normalizer {
	return &Normalizer{table: table}
}

// Normalize 回傳新的集合，每個含食材的食譜都換成重新建立的食材清單。
// 沒有食材欄位的食譜原樣保留，輸入集合不會被修改。
func (n *Normalizer) Normalize(c Collection) (Collection, error) {
	out := make(Collection, len(c))
	for i, r := range c {
		raw, ok := r.Lookup(IngredientsKey)
		if !ok {
			out[i] = r
			continue
		}

		items, err := n.normalizeIngredients(i, raw)
		if err != nil {
			return nil, err
		}

		encoded, err := json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("recipe %d: encode ingredients: %w", i, err)
		}
		out[i] = r.With(IngredientsKey, encoded)
	}
	return out, nil
}

// NormalizeIngredient 正規化單一食材
func (n *Normalizer) NormalizeIngredient(ing Ingredient) Ingredient {
	return Ingredient{
		Name:   n.table.Apply(ing.Name),
		Amount: Lower(ing.Amount),
	}
}

func (n *Normalizer) normalizeIngredients(recipeIdx int, raw json.RawMessage) ([]Ingredient, error) {
	list := gjson.ParseBytes(raw)
	if !list.IsArray() {
		return nil, &common.TypeMismatchError{
			Recipe: recipeIdx,
			Field:  IngredientsKey,
			Want:   "array",
			Got:    kindOf(list),
		}
	}

	items := make([]Ingredient, 0)
	var err error
	list.ForEach(func(_, item gjson.Result) bool {
		j := len(items)
		if !item.IsObject() {
			err = &common.TypeMismatchError{
				Recipe: recipeIdx,
				Field:  fmt.Sprintf("%s[%d]", IngredientsKey, j),
				Want:   "object",
				Got:    kindOf(item),
			}
			return false
		}

		var name, amount string
		if name, err = stringMember(recipeIdx, j, item, "name"); err != nil {
			return false
		}
		if amount, err = stringMember(recipeIdx, j, item, "amount"); err != nil {
			return false
		}

		normalized := n.NormalizeIngredient(Ingredient{Name: name, Amount: amount})
		if normalized.Name != Lower(name) {
			common.LogDebug("食材名稱已替換",
				zap.Int("recipe", recipeIdx),
				zap.String("from", name),
				zap.String("to", normalized.Name),
			)
		}
		items = append(items, normalized)
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// stringMember 取得物件中的字串欄位，重複的鍵以最後一個為準
func stringMember(recipeIdx, ingIdx int, obj gjson.Result, key string) (string, error) {
	var (
		value gjson.Result
		found bool
	)
	obj.ForEach(func(k, v gjson.Result) bool {
		if common.StringValue(k) == key {
			value, found = v, true
		}
		return true
	})
	if !found {
		return "", &common.MissingFieldError{Recipe: recipeIdx, Ingredient: ingIdx, Field: key}
	}
	if value.Type != gjson.String {
		return "", &common.TypeMismatchError{
			Recipe: recipeIdx,
			Field:  fmt.Sprintf("%s[%d].%s", IngredientsKey, ingIdx, key),
			Want:   "string",
			Got:    kindOf(value),
		}
	}
	return common.StringValue(value), nil
}

// kindOf 回傳 JSON 值的型別名稱
func kindOf(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	case gjson.JSON:
		if v.IsArray() {
			return "array"
		}
		return "object"
	default:
		return "unknown"
	}
}
