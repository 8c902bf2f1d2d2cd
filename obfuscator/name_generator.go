package obfuscator

import (
	"fmt"
)

const (
	nameStep    = 0x1234
	nameModulus = 0xFFFFFF
)

// NameGenerator 基于计数器生成十六进制风格的标识符。
// 第 n 个候选为 prefix + %06x(n*0x1234 mod 0xFFFFFF)，序列确定且可重放
type NameGenerator struct {
	prefix  string
	counter int64
	taken   func(string) bool
}

// NewNameGenerator 创建名称生成器，taken 返回 true 的候选会被跳过
func NewNameGenerator(prefix string, taken func(string) bool) *NameGenerator {
	if prefix == "" {
		prefix = "_0x"
	}
	return &NameGenerator{prefix: prefix, taken: taken}
}

// Next 返回下一个可用名称
func (g *NameGenerator) Next() string {
	for {
		name := g.candidate(g.counter)
		g.counter++
		if g.taken == nil || !g.taken(name) {
			return name
		}
	}
}

// Reset 把计数器归零
func (g *NameGenerator) Reset() {
	g.counter = 0
}

// candidate 计数器超出模数后直接使用计数器本身，不会与前面的候选重复
func (g *NameGenerator) candidate(n int64) string {
	if n < nameModulus {
		return fmt.Sprintf("%s%06x", g.prefix, n*nameStep%nameModulus)
	}
	return fmt.Sprintf("%s%x", g.prefix, n)
}
