package obfuscator

import (
	"strconv"
	"strings"

	"js-obfuscator/ast"
)

// genContext 单次代码生成的上下文，沿遍历向下传递
type genContext struct {
	b        strings.Builder
	accessor string
}

// GenerateCode 从语法树生成代码。只读取混淆器状态，可并发调用
func (o *Obfuscator) GenerateCode(tree *ast.Node) string {
	ctx := &genContext{}
	if len(o.stringTable) > 0 {
		ctx.accessor = o.accessorName
	}

	ctx.b.WriteString("(async () => {\n")
	if ctx.accessor != "" {
		ctx.b.WriteString(indent(1))
		ctx.b.WriteString(o.generateTablePrelude())
		ctx.b.WriteString("\n")
	}
	if tree != nil && tree.Kind == ast.Program {
		for _, stmt := range tree.Children {
			o.genStatement(ctx, stmt, 1)
		}
	} else {
		o.genStatement(ctx, tree, 1)
	}
	ctx.b.WriteString("})();\n")
	return ctx.b.String()
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func (o *Obfuscator) genStatement(ctx *genContext, n *ast.Node, depth int) {
	if n == nil {
		return
	}
	pad := indent(depth)

	switch n.Kind {
	case ast.Program:
		for _, stmt := range n.Children {
			o.genStatement(ctx, stmt, depth)
		}

	case ast.FunctionDeclaration:
		params, body := splitFunction(n)
		names := make([]string, len(params))
		for i, param := range params {
			names[i] = o.genExpr(ctx, param)
		}
		ctx.b.WriteString(pad + "function " + n.Value + "(" + strings.Join(names, ", ") + ") {\n")
		o.genBody(ctx, body, depth+1)
		ctx.b.WriteString(pad + "}\n")

	case ast.Block:
		ctx.b.WriteString(pad + "{\n")
		o.genBody(ctx, n, depth+1)
		ctx.b.WriteString(pad + "}\n")

	case ast.If:
		ctx.b.WriteString(pad + "if (" + o.genExpr(ctx, n.Child(0)) + ") {\n")
		o.genBody(ctx, n.Child(1), depth+1)
		ctx.b.WriteString(pad + "}")
		if alt := n.Child(2); alt != nil {
			ctx.b.WriteString(" else {\n")
			o.genBody(ctx, alt, depth+1)
			ctx.b.WriteString(pad + "}")
		}
		ctx.b.WriteString("\n")

	case ast.While, ast.WhileLoop:
		ctx.b.WriteString(pad + "while (" + o.genExpr(ctx, n.Child(0)) + ") {\n")
		o.genBody(ctx, n.Child(1), depth+1)
		ctx.b.WriteString(pad + "}\n")

	case ast.ForLoop:
		init := n.Child(0)
		sep := " "
		if init == nil || consumesSemicolon(init) {
			sep = "; "
		}
		ctx.b.WriteString(pad + "for (" + o.genInline(ctx, init) + sep +
			o.genExpr(ctx, n.Child(1)) + "; " + o.genInline(ctx, n.Child(2)) + ") {\n")
		o.genBody(ctx, n.Child(3), depth+1)
		ctx.b.WriteString(pad + "}\n")

	default:
		ctx.b.WriteString(pad + o.genSimple(ctx, n) + ";\n")
	}
}

// genBody 输出代码块内的语句；非代码块节点作为单条语句输出
func (o *Obfuscator) genBody(ctx *genContext, n *ast.Node, depth int) {
	if n == nil {
		return
	}
	if n.Kind != ast.Block {
		o.genStatement(ctx, n, depth)
		return
	}
	for _, stmt := range n.Children {
		o.genStatement(ctx, stmt, depth)
	}
}

// genSimple 输出不带缩进和分号的简单语句
func (o *Obfuscator) genSimple(ctx *genContext, n *ast.Node) string {
	switch n.Kind {
	case ast.Return:
		if value := n.Child(0); value != nil {
			return "return " + o.genExpr(ctx, value)
		}
		return "return"
	case ast.VariableDeclaration:
		keyword := n.Keyword
		if keyword == "" {
			keyword = "var"
		}
		if init := n.Child(0); init != nil {
			return keyword + " " + n.Value + " = " + o.genExpr(ctx, init)
		}
		return keyword + " " + n.Value
	}
	return o.genExpr(ctx, n)
}

// genInline 输出 for 头部中的语句，复合语句保留其多行形式
func (o *Obfuscator) genInline(ctx *genContext, n *ast.Node) string {
	if n == nil {
		return ""
	}
	if consumesSemicolon(n) {
		return o.genSimple(ctx, n)
	}
	inner := &genContext{accessor: ctx.accessor}
	o.genStatement(inner, n, 0)
	return strings.TrimSuffix(inner.b.String(), "\n")
}

// consumesSemicolon 语句之后可选的分号会被该语句吞掉
func consumesSemicolon(n *ast.Node) bool {
	switch n.Kind {
	case ast.Program, ast.FunctionDeclaration, ast.Block, ast.If, ast.While, ast.WhileLoop, ast.ForLoop:
		return false
	}
	return true
}

func (o *Obfuscator) genExpr(ctx *genContext, n *ast.Node) string {
	if n == nil {
		return ""
	}

	switch n.Kind {
	case ast.Expression:
		return "(" + o.genExpr(ctx, n.Child(0)) + " " + n.Value + " " + o.genExpr(ctx, n.Child(1)) + ")"

	case ast.Call:
		args := make([]string, 0, len(n.Children))
		for i := 1; i < len(n.Children); i++ {
			args = append(args, o.genExpr(ctx, n.Children[i]))
		}
		return o.genExpr(ctx, n.Child(0)) + "(" + strings.Join(args, ", ") + ")"

	case ast.MemberAccess:
		return o.genMember(ctx, n)

	case ast.Identifier, ast.Number:
		return n.Value

	case ast.String:
		return o.genString(ctx, n.Value)
	}
	return ""
}

func (o *Obfuscator) genMember(ctx *genContext, n *ast.Node) string {
	object := o.genExpr(ctx, n.Child(0))

	prop := n.Child(1)
	if prop == nil {
		return object
	}
	if prop.Kind != ast.Identifier {
		return dottedObject(object, n.Child(0)) + "." + o.genExpr(ctx, prop)
	}
	if ctx.accessor == "" || o.rendersPlain(n) {
		return dottedObject(object, n.Child(0)) + "." + prop.Value
	}
	if idx, ok := o.stringIndex[prop.Value]; ok {
		return object + "[" + ctx.accessor + "(" + strconv.Itoa(idx) + ")]"
	}
	return dottedObject(object, n.Child(0)) + "." + prop.Value
}

// dottedObject 整数字面量后紧跟的 "." 会被当作小数点，需要加括号
func dottedObject(object string, n *ast.Node) string {
	if n != nil && n.Kind == ast.Number && n.Value != "" && strings.Trim(n.Value, "0123456789") == "" {
		return "(" + object + ")"
	}
	return object
}

// genString 字符串表启用时 value 是下标，否则是字符串内容
func (o *Obfuscator) genString(ctx *genContext, value string) string {
	if ctx.accessor != "" {
		if idx, err := strconv.Atoi(value); err == nil && idx >= 0 && idx < len(o.stringTable) && strconv.Itoa(idx) == value {
			return ctx.accessor + "(" + value + ")"
		}
		if idx, ok := o.stringIndex[value]; ok {
			return ctx.accessor + "(" + strconv.Itoa(idx) + ")"
		}
	}
	return "'" + escapeString(value) + "'"
}

// splitFunction 最后一个 Block 子节点是函数体，其余是形参
func splitFunction(n *ast.Node) ([]*ast.Node, *ast.Node) {
	last := len(n.Children) - 1
	if last >= 0 && n.Children[last] != nil && n.Children[last].Kind == ast.Block {
		return n.Children[:last], n.Children[last]
	}
	return n.Children, nil
}
