package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// StringValue 以 encoding/json 的規則解出字串值，孤立的代理跳脫會換成 U+FFFD 而不吞掉下一個字元
func StringValue(v gjson.Result) string {
	var s string
	if err := json.Unmarshal([]byte(v.Raw), &s); err != nil {
		return v.Str
	}
	return s
}

// NewParseError 將 JSON 解碼錯誤轉換為 ParseError，盡量保留出錯位置
func NewParseError(err error, fallbackOffset int64) *ParseError {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return &ParseError{Offset: syntaxErr.Offset, Err: err}
	case errors.As(err, &typeErr):
		return &ParseError{Offset: typeErr.Offset, Err: err}
	case errors.Is(err, io.EOF):
		return &ParseError{Offset: fallbackOffset, Err: io.ErrUnexpectedEOF}
	default:
		return &ParseError{Offset: fallbackOffset, Err: err}
	}
}

// EnsureEOF 確保解碼器後面沒有多餘資料
func EnsureEOF(dec *json.Decoder) error {
	t, err := dec.Token()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("unexpected extra JSON data %v", t)
}
