package parser

import (
	"strconv"

	"js-obfuscator/ast"
	"js-obfuscator/lexer"
)

// parseExpression expression := term (("+"|"-") term)*
func (p *Parser) parseExpression() (*ast.Node, bool) {
	left, ok := p.parseTerm()
	if !ok {
		return nil, false
	}
	for {
		op, matched := p.matchAnyOperator("+", "-")
		if !matched {
			return left, true
		}
		right, ok := p.parseTerm()
		if !ok {
			return nil, false
		}
		left = ast.New(ast.Expression, op, left, right)
	}
}

// parseTerm term := memberOrCall (("*"|"/") memberOrCall)*
func (p *Parser) parseTerm() (*ast.Node, bool) {
	left, ok := p.parseMemberOrCall()
	if !ok {
		return nil, false
	}
	for {
		op, matched := p.matchAnyOperator("*", "/")
		if !matched {
			return left, true
		}
		right, ok := p.parseMemberOrCall()
		if !ok {
			return nil, false
		}
		left = ast.New(ast.Expression, op, left, right)
	}
}

// parseMemberOrCall 成员链左结合，链后紧跟 "(" 时整体作为被调用者
func (p *Parser) parseMemberOrCall() (*ast.Node, bool) {
	node, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}

	for {
		if p.matchLiteral(".") {
			prop, ok := p.expectKind(lexer.Identifier, "property name")
			if !ok {
				return nil, false
			}
			node = ast.New(ast.MemberAccess, ".", node, ast.New(ast.Identifier, prop.Value))
			continue
		}
		if p.table != nil && p.checkLiteral("[") {
			p.advance()
			index, ok := p.parseTableRef()
			if !ok || !p.expect("]") {
				return nil, false
			}
			n, _ := strconv.Atoi(index)
			node = ast.New(ast.MemberAccess, ".", node, ast.New(ast.Identifier, p.table[n]))
			continue
		}
		break
	}

	if !p.matchLiteral("(") {
		return node, true
	}
	call := ast.New(ast.Call, "call", node)
	if p.matchLiteral(")") {
		return call, true
	}
	for {
		arg, ok := p.parseExpression()
		if !ok {
			return nil, false
		}
		call.Children = append(call.Children, arg)
		if p.matchLiteral(",") {
			continue
		}
		if !p.expect(")") {
			return nil, false
		}
		return call, true
	}
}

// parsePrimary 遇到无法开始表达式的 token 时不移动游标
func (p *Parser) parsePrimary() (*ast.Node, bool) {
	tok, ok := p.peek()
	if !ok {
		p.errorAtEnd("expected expression before end of input")
		return nil, false
	}

	switch tok.Type {
	case lexer.Number:
		p.advance()
		return ast.New(ast.Number, tok.Value), true
	case lexer.String:
		p.advance()
		return ast.New(ast.String, Unquote(tok.Value)), true
	case lexer.Identifier:
		if p.table != nil && tok.Value == p.accessor {
			index, ok := p.parseTableRef()
			if !ok {
				return nil, false
			}
			return ast.New(ast.String, index), true
		}
		p.advance()
		return ast.New(ast.Identifier, tok.Value), true
	case lexer.Operator:
		p.errorAt(tok, "unsupported operator '%s'", tok.Value)
		return nil, false
	case lexer.Symbol:
		if tok.Value == "(" {
			p.advance()
			inner, ok := p.parseExpression()
			if !ok || !p.expect(")") {
				return nil, false
			}
			return inner, true
		}
	}
	p.errorAt(tok, "unexpected token '%s'", tok.Value)
	return nil, false
}

// parseTableRef 解析 accessor "(" NUMBER ")"，返回规范化的十进制下标
func (p *Parser) parseTableRef() (string, bool) {
	if tok, ok := p.peek(); !ok || tok.Type != lexer.Identifier || tok.Value != p.accessor {
		p.unexpected("string table accessor")
		return "", false
	}
	p.advance()
	if !p.expect("(") {
		return "", false
	}
	tok, ok := p.expectKind(lexer.Number, "string table index")
	if !ok {
		return "", false
	}
	n, err := strconv.Atoi(tok.Value)
	if err != nil || n < 0 || n >= len(p.table) {
		p.errorAt(tok, "string table index %s out of range", tok.Value)
		return "", false
	}
	if !p.expect(")") {
		return "", false
	}
	return strconv.Itoa(n), true
}

func (p *Parser) checkLiteral(text string) bool {
	tok, ok := p.peek()
	return ok && tok.Type != lexer.String && tok.Value == text
}

func (p *Parser) matchAnyOperator(ops ...string) (string, bool) {
	for _, op := range ops {
		if p.matchOperator(op) {
			return op, true
		}
	}
	return "", false
}

// startsPrimary 判断 token 能否开始一个 primary
func startsPrimary(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.Number, lexer.String, lexer.Identifier:
		return true
	case lexer.Symbol:
		return tok.Value == "("
	}
	return false
}
