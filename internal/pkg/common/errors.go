package common

import (
	"errors"
	"fmt"
)

// NotFoundError 食譜集合檔案不存在
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("File not found: %s", e.Path)
}

// EmptyInputError 食譜集合檔案為空
type EmptyInputError struct {
	Path string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("File is empty: %s", e.Path)
}

// ParseError 無法解析為 JSON 物件陣列
type ParseError struct {
	Offset int64 // 出錯位置（位元組偏移）
	Err    error // 原始解析錯誤
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("JSON decode error: %v (offset %d)", e.Err, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingFieldError 食材缺少必要欄位
type MissingFieldError struct {
	Recipe     int    // 食譜索引
	Ingredient int    // 食材索引
	Field      string // 缺少的欄位
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("recipe %d: ingredient %d is missing %q", e.Recipe, e.Ingredient, e.Field)
}

// TypeMismatchError 欄位型別不符
type TypeMismatchError struct {
	Recipe int
	Field  string // 欄位路徑，例如 ingredients[2].name
	Want   string
	Got    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("recipe %d: %s must be %s, got %s", e.Recipe, e.Field, e.Want, e.Got)
}

// IOError 檔案讀寫失敗
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsInputError 檢查是否為讀取階段的錯誤（找不到、空檔、解析失敗）
func IsInputError(err error) bool {
	var (
		notFound *NotFoundError
		empty    *EmptyInputError
		parse    *ParseError
	)
	return errors.As(err, &notFound) || errors.As(err, &empty) || errors.As(err, &parse)
}

// IsDataError 檢查是否為資料形狀錯誤
func IsDataError(err error) bool {
	var (
		missing  *MissingFieldError
		mismatch *TypeMismatchError
	)
	return errors.As(err, &missing) || errors.As(err, &mismatch)
}

// 快取錯誤
var (
	ErrCacheMiss     = errors.New("cache miss")
	ErrCacheFull     = errors.New("cache is full")
	ErrCacheDisabled = errors.New("cache is disabled")
)
