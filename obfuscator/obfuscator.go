package obfuscator

import (
	"strconv"

	"js-obfuscator/ast"
)

// New 创建新的混淆器实例，config 为 nil 时使用默认配置
func New(config *Config) *Obfuscator {
	if config == nil {
		config = DefaultConfig()
	}
	o := &Obfuscator{Config: config}
	o.reset()
	return o
}

// reset 清空上一次运行留下的全部状态
func (o *Obfuscator) reset() {
	o.nameMapping = make(map[string]string)
	o.issuedNames = make(map[string]bool)
	o.reservedNames = make(map[string]bool)
	for _, name := range o.Config.ReservedNames {
		o.reservedNames[name] = true
	}

	prefix := o.Config.NamePrefix
	if !isValidIdentifier(prefix) {
		prefix = "_0x"
	}
	o.names = NewNameGenerator(prefix, o.isNameUsed)

	o.stringTable = nil
	o.stringIndex = make(map[string]int)
	o.tableName = ""
	o.accessorName = ""

	o.numbersRewritten = 0
	o.stringsInterned = 0
}

// Obfuscate 对语法树做一次先序遍历，原地改写节点值并返回同一棵树。
// 树的形状（子节点数量和顺序）不变
func (o *Obfuscator) Obfuscate(tree *ast.Node) *ast.Node {
	o.reset()
	o.visit(tree)

	if len(o.stringTable) > 0 {
		o.tableName = o.newName()
		o.accessorName = o.newName()
	}
	return tree
}

func (o *Obfuscator) visit(n *ast.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case ast.Identifier, ast.FunctionDeclaration, ast.VariableDeclaration:
		// 成员访问的属性名在 visitMember 中单独处理，不会走到这里
		n.Value = o.obfuscateName(n.Value)

	case ast.Number:
		if canonical, ok := canonicalNumber(n.Value); ok {
			if canonical != n.Value {
				o.numbersRewritten++
			}
			n.Value = canonical
		}

	case ast.String:
		if o.Config.StringTable {
			n.Value = strconv.Itoa(o.internString(n.Value))
			o.stringsInterned++
		}

	case ast.MemberAccess:
		o.visitMember(n)
		return
	}

	for _, child := range n.Children {
		o.visit(child)
	}
}

// visitMember 属性名不是绑定，不参与重命名；不能直接输出时按先序位置进入字符串表
func (o *Obfuscator) visitMember(n *ast.Node) {
	plain := o.rendersPlain(n)
	o.visit(n.Child(0))

	for i, child := range n.Children {
		if i == 0 {
			continue
		}
		if i == 1 && child != nil && child.Kind == ast.Identifier {
			if o.Config.StringTable && !plain {
				o.internString(child.Value)
			}
			continue
		}
		o.visit(child)
	}
}

// GetStatistics 返回最近一次运行的统计信息
func (o *Obfuscator) GetStatistics() *Statistics {
	return &Statistics{
		IdentifiersRenamed: len(o.nameMapping),
		StringsInterned:    o.stringsInterned,
		TableSize:          len(o.stringTable),
		NumbersRewritten:   o.numbersRewritten,
		ReservedNames:      len(o.reservedNames),
	}
}

// NameMapping 返回最近一次运行的重命名映射副本
func (o *Obfuscator) NameMapping() map[string]string {
	mapping := make(map[string]string, len(o.nameMapping))
	for k, v := range o.nameMapping {
		mapping[k] = v
	}
	return mapping
}
