package obfuscator

import (
	"strconv"
	"strings"
)

// isValidIdentifier 检查名称能否作为标识符（或标识符前缀）
func isValidIdentifier(name string) bool {
	if len(name) == 0 {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// canonicalNumber 整段文本能按十进制 int64 解析时返回规范形式
func canonicalNumber(text string) (string, bool) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return text, false
	}
	return strconv.FormatInt(n, 10), true
}

// ParseNameList 解析逗号分隔的名称列表，忽略空项
func ParseNameList(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// firstDifference 返回两段文本第一处不同的行号（从 1 开始）和对应行
func firstDifference(want, got string) (int, string, string) {
	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")
	for i := 0; i < len(wantLines) || i < len(gotLines); i++ {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if w != g || i >= len(wantLines) || i >= len(gotLines) {
			return i + 1, w, g
		}
	}
	return 0, "", ""
}
