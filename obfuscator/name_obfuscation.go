package obfuscator

import (
	"js-obfuscator/ast"
)

// obfuscateName 返回名称的混淆结果，同一原始名称在一次运行内始终得到同一结果
func (o *Obfuscator) obfuscateName(name string) string {
	if name == "" || o.shouldProtect(name) {
		return name
	}
	if obf, exists := o.nameMapping[name]; exists {
		return obf
	}

	obf := o.newName()
	o.nameMapping[name] = obf
	return obf
}

// newName 从生成器取出一个新名称并登记
func (o *Obfuscator) newName() string {
	name := o.names.Next()
	o.issuedNames[name] = true
	return name
}

// isNameUsed 检查名称是否已被占用（保护名称或已分配的名称）
func (o *Obfuscator) isNameUsed(name string) bool {
	return o.reservedNames[name] || o.issuedNames[name]
}

// shouldProtect 检查名称是否应受保护而不被混淆
func (o *Obfuscator) shouldProtect(name string) bool {
	return o.reservedNames[name]
}

// rendersPlain 成员访问能否以 obj.prop 形式直接输出：
// 对象是保护名称构成的路径，并且属性本身也是保护名称
func (o *Obfuscator) rendersPlain(member *ast.Node) bool {
	prop := member.Child(1)
	if prop == nil || prop.Kind != ast.Identifier || !o.shouldProtect(prop.Value) {
		return false
	}
	return o.isPlainPath(member.Child(0))
}

func (o *Obfuscator) isPlainPath(n *ast.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.Identifier:
		return o.shouldProtect(n.Value)
	case ast.MemberAccess:
		return o.rendersPlain(n)
	}
	return false
}
