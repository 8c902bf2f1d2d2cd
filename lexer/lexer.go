package lexer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// category 按固定顺序尝试的一类词法模式
type category struct {
	typ     TokenType
	pattern *regexp2.Regexp
}

var (
	// 空白和注释直接丢弃
	skipPattern = anchored(`(?:[ \t\n\r\f\v]+|//[^\n]*|/\*[\s\S]*?\*/)+`)

	categories = []category{
		{Keyword, anchored(`(?:` + strings.Join(Keywords, "|") + `)\b`)},
		{Identifier, anchored(`[A-Za-z_][A-Za-z0-9_]*`)},
		{Number, anchored(`[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?`)},
		{String, anchored(`"(?:[^"\\]|\\[\s\S])*"|'(?:[^'\\]|\\[\s\S])*'`)},
		{String, anchored("`(?:[^`\\\\]|\\\\[\\s\\S])*`")},
		{Operator, anchored(operatorPattern())},
		{Symbol, anchored(`[{}()\[\];,.]`)},
	}
)

// anchored 编译一个只能在起始位置匹配的模式
func anchored(expr string) *regexp2.Regexp {
	return regexp2.MustCompile(`\G(?:`+expr+`)`, regexp2.None)
}

// operatorPattern 按长度降序拼接运算符，保证最长匹配优先
func operatorPattern() string {
	ops := make([]string, len(Operators))
	copy(ops, Operators)
	sort.SliceStable(ops, func(i, j int) bool {
		if len(ops[i]) != len(ops[j]) {
			return len(ops[i]) > len(ops[j])
		}
		return ops[i] < ops[j]
	})
	for i, op := range ops {
		ops[i] = regexp2.Escape(op)
	}
	return strings.Join(ops, "|")
}

// Lexer 把源码切分为词法单元序列
type Lexer struct {
	input  []rune
	pos    int
	line   int
	column int
	tokens []Token
	errors []string
}

// New 为给定源码创建词法分析器
func New(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// Tokenize 从头扫描整个输入并返回全部词法单元。
// 无法识别的字符记录诊断后跳过一个字符，扫描从不中断
func (l *Lexer) Tokenize() []Token {
	l.pos, l.line, l.column = 0, 1, 1
	l.tokens = []Token{}
	l.errors = []string{}

	for l.pos < len(l.input) {
		if n := l.match(skipPattern); n > 0 {
			l.advance(n)
			continue
		}
		if l.readToken() {
			continue
		}
		l.errors = append(l.errors, fmt.Sprintf("%d:%d: unknown token %q", l.line, l.column, l.input[l.pos]))
		l.advance(1)
	}
	return l.tokens
}

// Errors 返回最近一次 Tokenize 产生的诊断
func (l *Lexer) Errors() []string {
	return l.errors
}

func (l *Lexer) readToken() bool {
	for _, c := range categories {
		n := l.match(c.pattern)
		if n == 0 {
			continue
		}
		l.tokens = append(l.tokens, Token{
			Type:   c.typ,
			Value:  string(l.input[l.pos : l.pos+n]),
			Line:   l.line,
			Column: l.column,
		})
		l.advance(n)
		return true
	}
	return false
}

// match 返回模式在当前位置匹配的字符数，不匹配返回 0
func (l *Lexer) match(re *regexp2.Regexp) int {
	m, err := re.FindRunesMatchStartingAt(l.input, l.pos)
	if err != nil || m == nil || m.Index != l.pos {
		return 0
	}
	return m.Length
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}
