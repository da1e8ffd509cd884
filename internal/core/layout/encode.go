package layout

import (
	"bytes"

	"recipe-normalizer/internal/pkg/common"

	"github.com/tidwall/gjson"
)

const hexDigits = "0123456789abcdef"

// quote 以雙引號輸出字串。asciiOnly 為 true 時，非 ASCII 與 DEL 以 \uXXXX 表示
func quote(buf *bytes.Buffer, s string, asciiOnly bool) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r < 0x20:
				writeEscape(buf, r)
			case asciiOnly && r > 0x7e:
				if r >= 0x10000 {
					r -= 0x10000
					writeEscape(buf, 0xd800|((r>>10)&0x3ff))
					writeEscape(buf, 0xdc00|(r&0x3ff))
				} else {
					writeEscape(buf, r)
				}
			default:
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

func writeEscape(buf *bytes.Buffer, r rune) {
	buf.WriteString(`\u`)
	buf.WriteByte(hexDigits[(r>>12)&0xf])
	buf.WriteByte(hexDigits[(r>>8)&0xf])
	buf.WriteByte(hexDigits[(r>>4)&0xf])
	buf.WriteByte(hexDigits[r&0xf])
}

type member struct {
	key   string
	value gjson.Result
}

// members 依序列出物件成員，重複的鍵保留第一次的位置與最後一次的值
func members(obj gjson.Result) []member {
	var out []member
	index := make(map[string]int)
	obj.ForEach(func(k, v gjson.Result) bool {
		key := common.StringValue(k)
		if i, ok := index[key]; ok {
			out[i].value = v
			return true
		}
		index[key] = len(out)
		out = append(out, member{key: key, value: v})
		return true
	})
	return out
}

// writeValue 將 JSON 值輸出為單行，使用設定的分隔字串。數字保留原文
func (s *Serializer) writeValue(buf *bytes.Buffer, v gjson.Result, asciiOnly bool) {
	switch v.Type {
	case gjson.Null:
		buf.WriteString("null")
	case gjson.False:
		buf.WriteString("false")
	case gjson.True:
		buf.WriteString("true")
	case gjson.Number:
		buf.WriteString(v.Raw)
	case gjson.String:
		quote(buf, common.StringValue(v), asciiOnly)
	case gjson.JSON:
		if v.IsArray() {
			buf.WriteByte('[')
			for i, item := range v.Array() {
				if i > 0 {
					buf.WriteString(s.layout.ItemSeparator)
				}
				s.writeValue(buf, item, asciiOnly)
			}
			buf.WriteByte(']')
			return
		}
		buf.WriteByte('{')
		for i, m := range members(v) {
			if i > 0 {
				buf.WriteString(s.layout.ItemSeparator)
			}
			quote(buf, m.key, asciiOnly)
			buf.WriteString(s.layout.KeySeparator)
			s.writeValue(buf, m.value, asciiOnly)
		}
		buf.WriteByte('}')
	}
}

