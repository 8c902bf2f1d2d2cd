package ast

import (
	"fmt"
	"io"
	"strings"
)

// Kind 语法树节点类型
type Kind int

const (
	Program Kind = iota
	FunctionDeclaration
	Block
	Return
	VariableDeclaration
	Call
	MemberAccess
	Expression
	Identifier
	Number
	String
	If
	While
	ForLoop
	WhileLoop
)

// BinaryExpression 与 Expression 是同一种节点
const BinaryExpression = Expression

var kindNames = map[Kind]string{
	Program:             "Program",
	FunctionDeclaration: "FunctionDeclaration",
	Block:               "Block",
	Return:              "Return",
	VariableDeclaration: "VariableDeclaration",
	Call:                "Call",
	MemberAccess:        "MemberAccess",
	Expression:          "Expression",
	Identifier:          "Identifier",
	Number:              "Number",
	String:              "String",
	If:                  "If",
	While:               "While",
	ForLoop:             "ForLoop",
	WhileLoop:           "WhileLoop",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node 语法树节点。父节点独占子节点，树中不存在共享或环。
//
// Value 的含义随 Kind 变化：声明节点是声明的名字，Expression 是运算符，
// String 是解码后的内容（字符串表启用后变为十进制索引）。
// Keyword 只在 VariableDeclaration 上使用，记录 var/let/const。
type Node struct {
	Kind     Kind
	Value    string
	Keyword  string
	Children []*Node
}

// New 创建节点
func New(kind Kind, value string, children ...*Node) *Node {
	return &Node{Kind: kind, Value: value, Children: children}
}

// Child 返回第 i 个子节点，越界时返回 nil
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Walk 先序遍历，fn 返回 false 时不再进入该节点的子树
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Dump 以缩进形式输出语法树，每层两个空格
func Dump(w io.Writer, n *Node) {
	dump(w, n, 0)
}

func dump(w io.Writer, n *Node, depth int) {
	if n == nil {
		return
	}
	fmt.Fprintf(w, "%sKind: %s, Value: %q\n", strings.Repeat("  ", depth), n.Kind, n.Value)
	for _, child := range n.Children {
		dump(w, child, depth+1)
	}
}
