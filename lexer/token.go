package lexer

// TokenType 词法单元类别
type TokenType int

const (
	Identifier TokenType = iota
	Keyword
	Number
	String
	Operator
	Symbol
)

var tokenTypeNames = map[TokenType]string{
	Identifier: "Identifier",
	Keyword:    "Keyword",
	Number:     "Number",
	String:     "String",
	Operator:   "Operator",
	Symbol:     "Symbol",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Token 是词法分析器输出的最小单元，Value 保存原始匹配文本
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
}

// Keywords 是封闭的保留字集合，匹配时要求单词边界
var Keywords = []string{
	"if", "else", "for", "while", "return", "function",
	"const", "let", "var", "async", "await", "class", "new", "this", "super",
}

// Operators 是可识别的运算符集合，编译时按最长优先排序。
// 语法只消费 + - * / 和声明中的 =，其余运算符仅做词法识别
var Operators = []string{
	">>>=", "===", "!==", ">>>", "<<=", ">>=",
	"**", "=>", "==", "!=", "<=", ">=", "++", "--", "&&", "||", "??",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "?", ":", "^", "&", "|", "~",
}
