package recipe

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule 完全比對的替換規則
type Rule struct {
	From string
	To   string
}

// ReplacementTable 依序比對的替換表，第一個符合的規則優先
type ReplacementTable struct {
	rules []Rule
}

// DefaultReplacements 內建替換表
func DefaultReplacements() ReplacementTable {
	return ReplacementTable{rules: []Rule{
		{From: "beef stock concentrate", To: "stock concentrate"},
		{From: "beef stock", To: "stock"},
		{From: "olive oil", To: "oil"},
		{From: "all-purpose flour", To: "flour"},
		{From: "white sugar", To: "sugar"},
	}}
}

// NewReplacementTable 由規則建立替換表
func NewReplacementTable(rules ...Rule) (ReplacementTable, error) {
	out := make([]Rule, 0, len(rules))
	for i, r := range rules {
		if r.From == "" {
			return ReplacementTable{}, fmt.Errorf("replacement %d: from is empty", i)
		}
		// 名稱比對前已轉小寫，含大寫的規則永遠不會命中
		if r.From != Lower(r.From) {
			return ReplacementTable{}, fmt.Errorf("replacement %d: from %q must be lower-case", i, r.From)
		}
		out = append(out, r)
	}
	return ReplacementTable{rules: out}, nil
}

// Rules 回傳規則副本
func (t ReplacementTable) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Len 規則數量
func (t ReplacementTable) Len() int {
	return len(t.rules)
}

// Lookup 以完全比對查詢替換值
func (t ReplacementTable) Lookup(name string) (string, bool) {
	for _, r := range t.rules {
		if r.From == name {
			return r.To, true
		}
	}
	return "", false
}

// Apply 將名稱轉小寫後套用替換表
func (t ReplacementTable) Apply(name string) string {
	name = Lower(name)
	if to, ok := t.Lookup(name); ok {
		return to
	}
	return name
}

// Lower 依 Unicode 預設規則轉小寫，含詞尾 sigma 與 İ 的完整對應
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
