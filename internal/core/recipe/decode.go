package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"recipe-normalizer/internal/pkg/common"
)

// Decode 解析 JSON 物件陣列，保留每個食譜的欄位順序。
// 重複的鍵保留第一次出現的位置與最後一次的值。
func Decode(data []byte) (Collection, error) {
	if !utf8.Valid(data) {
		return nil, &common.ParseError{Offset: invalidUTF8Offset(data), Err: errors.New("invalid UTF-8")}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	end := int64(len(data))

	if err := expectDelim(dec, '[', "collection must be a JSON array"); err != nil {
		return nil, err
	}

	collection := make(Collection, 0)
	for dec.More() {
		r, err := decodeRecipe(dec, len(collection))
		if err != nil {
			return nil, err
		}
		collection = append(collection, r)
	}

	if _, err := dec.Token(); err != nil {
		return nil, common.NewParseError(err, end)
	}
	if err := common.EnsureEOF(dec); err != nil {
		return nil, common.NewParseError(err, dec.InputOffset())
	}

	return collection, nil
}

func decodeRecipe(dec *json.Decoder, idx int) (Recipe, error) {
	if err := expectDelim(dec, '{', fmt.Sprintf("recipe %d must be a JSON object", idx)); err != nil {
		return Recipe{}, err
	}

	var r Recipe
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Recipe{}, common.NewParseError(err, dec.InputOffset())
		}
		key, ok := tok.(string)
		if !ok {
			return Recipe{}, &common.ParseError{Offset: dec.InputOffset(), Err: fmt.Errorf("recipe %d: unexpected token %v", idx, tok)}
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return Recipe{}, common.NewParseError(err, dec.InputOffset())
		}
		r.set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return Recipe{}, common.NewParseError(err, dec.InputOffset())
	}
	return r, nil
}

func expectDelim(dec *json.Decoder, want json.Delim, msg string) error {
	offset := dec.InputOffset()
	tok, err := dec.Token()
	if err != nil {
		return common.NewParseError(err, offset)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return &common.ParseError{Offset: offset, Err: errors.New(msg)}
	}
	return nil
}

func invalidUTF8Offset(data []byte) int64 {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return int64(i)
		}
		i += size
	}
	return int64(len(data))
}
