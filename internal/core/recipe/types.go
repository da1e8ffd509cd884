package recipe

import (
	"encoding/json"
)

// IngredientsKey 食材清單欄位名稱
const IngredientsKey = "ingredients"

// Field 食譜中的一個欄位，值保留原始 JSON
type Field struct {
	Key   string
	Value json.RawMessage
}

// Recipe 食譜，欄位順序與來源一致
type Recipe struct {
	Fields []Field
}

// Ingredient 食材
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// Collection 食譜集合
type Collection []Recipe

// Lookup 取得欄位值
func (r Recipe) Lookup(key string) (json.RawMessage, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// HasIngredients 是否包含食材欄位
func (r Recipe) HasIngredients() bool {
	_, ok := r.Lookup(IngredientsKey)
	return ok
}

// With 回傳替換（或附加）指定欄位後的新食譜，原食譜不變
func (r Recipe) With(key string, value json.RawMessage) Recipe {
	fields := make([]Field, 0, len(r.Fields)+1)
	replaced := false
	for _, f := range r.Fields {
		if f.Key == key {
			f.Value = value
			replaced = true
		}
		fields = append(fields, f)
	}
	if !replaced {
		fields = append(fields, Field{Key: key, Value: value})
	}
	return Recipe{Fields: fields}
}

// set 就地設定欄位，重複的鍵保留第一次出現的位置
func (r *Recipe) set(key string, value json.RawMessage) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
}

// Ingredients 解析已正規化的食材清單
func (r Recipe) Ingredients() ([]Ingredient, error) {
	raw, ok := r.Lookup(IngredientsKey)
	if !ok {
		return nil, nil
	}
	var items []Ingredient
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MarshalJSON 依欄位順序輸出緊湊 JSON
func (r Recipe) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, f := range r.Fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, f.Value...)
	}
	return append(buf, '}'), nil
}
