package parser

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Unquote 去掉字符串 token 两侧的引号并解析转义序列。
// 未知转义保留被转义的字符本身；模板字符串中的 ${...} 不做插值
func Unquote(raw string) string {
	runes := []rune(raw)
	if len(runes) == 0 {
		return ""
	}
	if q := runes[0]; q == '"' || q == '\'' || q == '`' {
		runes = runes[1:]
		if n := len(runes); n > 0 && runes[n-1] == q {
			runes = runes[:n-1]
		}
	}

	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i+1 >= len(runes) {
			b.WriteRune(r)
			continue
		}

		i++
		switch c := runes[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// 续行
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
		case 'x':
			if v, ok := hexValue(runes, i+1, 2); ok {
				b.WriteRune(rune(v))
				i += 2
			} else {
				b.WriteRune(c)
			}
		case 'u':
			v, width, ok := unicodeEscape(runes, i+1)
			if !ok {
				b.WriteRune(c)
				break
			}
			i += width
			if utf16.IsSurrogate(rune(v)) && i+2 < len(runes) && runes[i+1] == '\\' && runes[i+2] == 'u' {
				if lo, loWidth, ok := unicodeEscape(runes, i+3); ok {
					if pair := utf16.DecodeRune(rune(v), rune(lo)); pair != utf8.RuneError {
						b.WriteRune(pair)
						i += 2 + loWidth
						break
					}
				}
			}
			b.WriteRune(rune(v))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// unicodeEscape 解析 \u 之后的 HHHH 或 {H...}，返回码点和消耗的字符数
func unicodeEscape(runes []rune, start int) (uint64, int, bool) {
	if start < len(runes) && runes[start] == '{' {
		end := start + 1
		for end < len(runes) && runes[end] != '}' {
			end++
		}
		if end >= len(runes) || end == start+1 {
			return 0, 0, false
		}
		v, ok := hexValue(runes, start+1, end-start-1)
		if !ok || v > 0x10FFFF {
			return 0, 0, false
		}
		return v, end - start + 1, true
	}
	v, ok := hexValue(runes, start, 4)
	return v, 4, ok
}

func hexValue(runes []rune, start, width int) (uint64, bool) {
	if start+width > len(runes) {
		return 0, false
	}
	v, err := strconv.ParseUint(string(runes[start:start+width]), 16, 32)
	if err != nil {
		return 0, false
	}
	return v, true
}
