package obfuscator

import (
	"js-obfuscator/lexer"
	"js-obfuscator/parser"
)

var (
	envelopeHeader  = []string{"(", "async", "(", ")", "=>", "{"}
	envelopeTrailer = []string{"}", ")", "(", ")", ";"}
)

// envelope 生成代码外层结构的回读结果
type envelope struct {
	body         []lexer.Token
	table        []string
	tableName    string
	accessorName string
}

// unwrapEnvelope 识别 (async () => { ... })(); 包装和可选的字符串表前导
func unwrapEnvelope(tokens []lexer.Token) (*envelope, bool) {
	if len(tokens) < len(envelopeHeader)+len(envelopeTrailer) {
		return nil, false
	}
	if !matchValues(tokens, envelopeHeader) || !matchValues(tokens[len(tokens)-len(envelopeTrailer):], envelopeTrailer) {
		return nil, false
	}

	env := &envelope{body: tokens[len(envelopeHeader) : len(tokens)-len(envelopeTrailer)]}
	c := &tokenCursor{tokens: env.body}
	if c.prelude(env) {
		env.body = env.body[c.pos:]
	} else {
		env.table, env.tableName, env.accessorName = nil, "", ""
	}
	return env, true
}

func matchValues(tokens []lexer.Token, values []string) bool {
	if len(tokens) < len(values) {
		return false
	}
	for i, v := range values {
		if tokens[i].Type == lexer.String || tokens[i].Value != v {
			return false
		}
	}
	return true
}

// tokenCursor 只用于匹配固定形状的前导
type tokenCursor struct {
	tokens []lexer.Token
	pos    int
}

// prelude 匹配
// var T = [ STR (, STR)* ] ; var F = function ( P ) { return T [ P ] ; } ;
func (c *tokenCursor) prelude(env *envelope) bool {
	var ok bool
	if !c.lit("var") {
		return false
	}
	if env.tableName, ok = c.ident(); !ok {
		return false
	}
	if !c.lit("=") || !c.lit("[") {
		return false
	}
	for {
		raw, ok := c.str()
		if !ok {
			return false
		}
		env.table = append(env.table, parser.Unquote(raw))
		if c.lit(",") {
			continue
		}
		if !c.lit("]") || !c.lit(";") {
			return false
		}
		break
	}

	if !c.lit("var") {
		return false
	}
	if env.accessorName, ok = c.ident(); !ok {
		return false
	}
	if !c.lit("=") || !c.lit("function") || !c.lit("(") {
		return false
	}
	param, ok := c.ident()
	if !ok {
		return false
	}
	return c.lit(")") && c.lit("{") && c.lit("return") && c.lit(env.tableName) &&
		c.lit("[") && c.lit(param) && c.lit("]") && c.lit(";") && c.lit("}") && c.lit(";")
}

func (c *tokenCursor) lit(value string) bool {
	if c.pos >= len(c.tokens) || c.tokens[c.pos].Type == lexer.String || c.tokens[c.pos].Value != value {
		return false
	}
	c.pos++
	return true
}

func (c *tokenCursor) ident() (string, bool) {
	return c.kind(lexer.Identifier)
}

func (c *tokenCursor) str() (string, bool) {
	return c.kind(lexer.String)
}

func (c *tokenCursor) kind(t lexer.TokenType) (string, bool) {
	if c.pos >= len(c.tokens) || c.tokens[c.pos].Type != t {
		return "", false
	}
	c.pos++
	return c.tokens[c.pos-1].Value, true
}
