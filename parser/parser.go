package parser

import (
	"fmt"
	"unicode/utf8"

	"js-obfuscator/ast"
	"js-obfuscator/lexer"
)

// Parser 单个前瞻的递归下降语法分析器。
// 语法错误不会中断分析：出错的子规则返回 absent 并记录诊断，
// 语句循环在出错位置丢弃一个 token 后继续。游标只前进不回退，分析时间与输入长度成线性关系。
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []string

	// 回读混淆结果时使用：accessor(N) 还原为字符串表中的第 N 项
	accessor string
	table    []string
}

// New 创建语法分析器
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// NewWithTable 创建能识别字符串表访问器的分析器。
// accessor(N) 解析为值为 N 的 String 节点，obj[accessor(N)] 解析为属性名为 table[N] 的成员访问
func NewWithTable(tokens []lexer.Token, accessor string, table []string) *Parser {
	return &Parser{tokens: tokens, accessor: accessor, table: table}
}

// Errors 返回最近一次 ParseProgram 产生的诊断
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseProgram 解析整个 token 序列，总是返回非 nil 的 Program 节点
func (p *Parser) ParseProgram() *ast.Node {
	p.pos = 0
	p.errors = []string{}

	program := ast.New(ast.Program, "program")
	for !p.atEnd() {
		p.parseStatementInto(program)
	}
	return program
}

// parseStatementInto 解析一条语句并追加到 parent；失败时从出错位置跳过一个 token
func (p *Parser) parseStatementInto(parent *ast.Node) {
	if p.matchLiteral(";") {
		return
	}
	stmt, ok := p.parseStatement()
	if ok {
		parent.Children = append(parent.Children, stmt)
		return
	}
	p.advance()
}

func (p *Parser) parseStatement() (*ast.Node, bool) {
	tok, ok := p.peek()
	if !ok {
		p.errorAtEnd("expected statement")
		return nil, false
	}

	if tok.Type == lexer.Keyword {
		switch tok.Value {
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "for":
			return p.parseFor()
		case "var", "let", "const":
			return p.parseVarDecl()
		case "return":
			return p.parseReturn()
		case "function":
			return p.parseFunction()
		}
	}
	if tok.Type == lexer.Symbol && tok.Value == "{" {
		return p.parseBlock()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseFunction() (*ast.Node, bool) {
	p.advance()

	name, ok := p.expectKind(lexer.Identifier, "function name")
	if !ok {
		return nil, false
	}
	if !p.expect("(") {
		return nil, false
	}

	fn := ast.New(ast.FunctionDeclaration, name.Value)
	if !p.matchLiteral(")") {
		for {
			param, ok := p.expectKind(lexer.Identifier, "parameter name")
			if !ok {
				return nil, false
			}
			fn.Children = append(fn.Children, ast.New(ast.Identifier, param.Value))
			if p.matchLiteral(",") {
				continue
			}
			if !p.expect(")") {
				return nil, false
			}
			break
		}
	}

	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	fn.Children = append(fn.Children, body)
	return fn, true
}

func (p *Parser) parseBlock() (*ast.Node, bool) {
	if !p.expect("{") {
		return nil, false
	}

	block := ast.New(ast.Block, "block")
	for {
		tok, ok := p.peek()
		if !ok {
			p.errorAtEnd("expected '}' before end of input")
			return block, true
		}
		if tok.Type == lexer.Symbol && tok.Value == "}" {
			p.advance()
			return block, true
		}
		p.parseStatementInto(block)
	}
}

func (p *Parser) parseIf() (*ast.Node, bool) {
	p.advance()

	cond, ok := p.parseCondition()
	if !ok {
		return nil, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return nil, false
	}

	node := ast.New(ast.If, "if", cond, then)
	if p.matchLiteral("else") {
		// else 后不是块时只丢弃 else 分支，后续 token 交给语句循环
		if !p.checkLiteral("{") {
			p.unexpected("'{' after 'else'")
			return node, true
		}
		alt, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		node.Children = append(node.Children, alt)
	}
	return node, true
}

func (p *Parser) parseWhile() (*ast.Node, bool) {
	p.advance()

	cond, ok := p.parseCondition()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return ast.New(ast.While, "while", cond, body), true
}

// parseFor 任一部分缺失则整个循环缺失，外层语句循环负责恢复
func (p *Parser) parseFor() (*ast.Node, bool) {
	p.advance()

	if !p.expect("(") {
		return nil, false
	}
	init, ok := p.parseStatement()
	if !ok {
		return nil, false
	}
	cond, ok := p.parseExpression()
	if !ok {
		return nil, false
	}
	if !p.expect(";") {
		return nil, false
	}
	incr, ok := p.parseStatement()
	if !ok {
		return nil, false
	}
	if !p.expect(")") {
		return nil, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	return ast.New(ast.ForLoop, "for", init, cond, incr, body), true
}

func (p *Parser) parseCondition() (*ast.Node, bool) {
	if !p.expect("(") {
		return nil, false
	}
	cond, ok := p.parseExpression()
	if !ok {
		return nil, false
	}
	if !p.expect(")") {
		return nil, false
	}
	return cond, true
}

func (p *Parser) parseVarDecl() (*ast.Node, bool) {
	keyword, _ := p.peek()
	p.advance()

	name, ok := p.expectKind(lexer.Identifier, "variable name")
	if !ok {
		return nil, false
	}

	decl := ast.New(ast.VariableDeclaration, name.Value)
	decl.Keyword = keyword.Value
	if p.matchOperator("=") {
		init, ok := p.parseExpression()
		if !ok {
			return nil, false
		}
		decl.Children = append(decl.Children, init)
	}
	p.matchLiteral(";")
	return decl, true
}

func (p *Parser) parseReturn() (*ast.Node, bool) {
	p.advance()

	ret := ast.New(ast.Return, "return")
	if tok, ok := p.peek(); ok && startsPrimary(tok) {
		value, ok := p.parseExpression()
		if !ok {
			return nil, false
		}
		ret.Children = append(ret.Children, value)
	}
	p.matchLiteral(";")
	return ret, true
}

func (p *Parser) parseExpressionStatement() (*ast.Node, bool) {
	expr, ok := p.parseExpression()
	if !ok {
		return nil, false
	}
	p.matchLiteral(";")
	return expr, true
}

// ===== 游标操作 =====

// peek 返回当前 token，输入耗尽时第二个返回值为 false
func (p *Parser) peek() (lexer.Token, bool) {
	if p.pos >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

// matchLiteral 当前 token 文本等于 text 时前进。字符串字面量带引号，不会误匹配
func (p *Parser) matchLiteral(text string) bool {
	tok, ok := p.peek()
	if !ok || tok.Type == lexer.String || tok.Value != text {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) matchKind(kind lexer.TokenType) bool {
	tok, ok := p.peek()
	if !ok || tok.Type != kind {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) matchOperator(op string) bool {
	tok, ok := p.peek()
	if !ok || tok.Type != lexer.Operator || tok.Value != op {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expect(text string) bool {
	if p.matchLiteral(text) {
		return true
	}
	p.unexpected(fmt.Sprintf("'%s'", text))
	return false
}

func (p *Parser) expectKind(kind lexer.TokenType, what string) (lexer.Token, bool) {
	tok, _ := p.peek()
	if p.matchKind(kind) {
		return tok, true
	}
	p.unexpected(what)
	return lexer.Token{}, false
}

func (p *Parser) unexpected(want string) {
	tok, ok := p.peek()
	if !ok {
		p.errorAtEnd("expected %s before end of input", want)
		return
	}
	p.errorAt(tok, "expected %s, got '%s'", want, tok.Value)
}

// ===== 诊断 =====

func (p *Parser) errorAt(tok lexer.Token, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", tok.Line, tok.Column, msg))
}

// errorAtEnd 诊断位置取最后一个 token 之后
func (p *Parser) errorAtEnd(format string, args ...interface{}) {
	end := lexer.Token{Line: 1, Column: 1}
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		end.Line = last.Line
		end.Column = last.Column + utf8.RuneCountInString(last.Value)
	}
	p.errorAt(end, format, args...)
}
