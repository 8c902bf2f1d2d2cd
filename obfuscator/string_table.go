package obfuscator

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// accessorParam 访问器函数的形参名，不在生成名称的取值范围内
const accessorParam = "_0x1"

// internString 把字符串加入字符串表并返回下标，相同内容只保存一次
func (o *Obfuscator) internString(text string) int {
	if idx, ok := o.stringIndex[text]; ok {
		return idx
	}
	idx := len(o.stringTable)
	o.stringTable = append(o.stringTable, text)
	o.stringIndex[text] = idx
	return idx
}

// restoreStringTable 用回读得到的字符串表替换当前表
func (o *Obfuscator) restoreStringTable(table []string, tableName, accessorName string) {
	o.stringTable = nil
	o.stringIndex = make(map[string]int)
	for _, text := range table {
		o.internString(text)
	}
	o.tableName = tableName
	o.accessorName = accessorName
	o.issuedNames[tableName] = true
	o.issuedNames[accessorName] = true
}

// StringTable 返回当前字符串表的副本
func (o *Obfuscator) StringTable() []string {
	table := make([]string, len(o.stringTable))
	copy(table, o.stringTable)
	return table
}

// generateTablePrelude 生成字符串表数组和访问器函数
func (o *Obfuscator) generateTablePrelude() string {
	entries := make([]string, len(o.stringTable))
	for i, text := range o.stringTable {
		entries[i] = "'" + escapeString(text) + "'"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "var %s=[%s];", o.tableName, strings.Join(entries, ","))
	fmt.Fprintf(&b, "var %s=function(%s){return %s[%s];};", o.accessorName, accessorParam, o.tableName, accessorParam)
	return b.String()
}

// escapeString 生成单引号字符串字面量的内容。
// 可打印 ASCII 原样输出，U+0100 以下的其他码点用 \xHH，更大的码点用 \uHHHH（必要时为代理对），
// 非法 UTF-8 字节按字节输出 \xHH
func escapeString(text string) string {
	var b strings.Builder
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&b, `\x%02x`, text[i])
			i++
			continue
		}
		i += size

		switch {
		case r == '\'':
			b.WriteString(`\'`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
		}
	}
	return b.String()
}
