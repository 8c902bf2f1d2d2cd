package obfuscator

import (
	"log"

	"github.com/pkg/errors"

	"js-obfuscator/ast"
	"js-obfuscator/lexer"
	"js-obfuscator/parser"
)

// Run 执行整个混淆流程：词法分析、语法分析、混淆、生成代码。
// 诊断信息不会中断流程，全部收集到 Result.Diagnostics
func (o *Obfuscator) Run(source string) *Result {
	o.logln("阶段 1/4: 词法分析...")
	l := lexer.New(source)
	tokens := l.Tokenize()
	diagnostics := append([]string{}, l.Errors()...)

	o.logln("阶段 2/4: 语法分析...")
	p := parser.New(tokens)
	tree := p.ParseProgram()
	diagnostics = append(diagnostics, p.Errors()...)

	o.logln("阶段 3/4: 应用混淆...")
	o.Obfuscate(tree)

	o.logln("阶段 4/4: 生成代码...")
	code := o.GenerateCode(tree)

	for _, msg := range diagnostics {
		o.logf("警告: %s", msg)
	}
	return &Result{Code: code, Tree: tree, Diagnostics: diagnostics}
}

// Reparse 回读本混淆器生成的代码，恢复字符串表和访问器名称，返回函数体对应的语法树。
// 没有外层包装的文本按普通程序解析
func (o *Obfuscator) Reparse(code string) (*ast.Node, []string) {
	o.reset()

	l := lexer.New(code)
	tokens := l.Tokenize()
	diagnostics := append([]string{}, l.Errors()...)

	var p *parser.Parser
	if env, ok := unwrapEnvelope(tokens); !ok {
		p = parser.New(tokens)
	} else if len(env.table) > 0 {
		o.restoreStringTable(env.table, env.tableName, env.accessorName)
		p = parser.NewWithTable(env.body, o.accessorName, o.stringTable)
	} else {
		p = parser.New(env.body)
	}

	tree := p.ParseProgram()
	diagnostics = append(diagnostics, p.Errors()...)
	return tree, diagnostics
}

// Verify 回读 code 并重新生成，结果必须与 code 完全一致。
// 使用独立的混淆器实例，不影响当前实例的运行状态
func (o *Obfuscator) Verify(code string) error {
	checker := New(o.Config)
	tree, diagnostics := checker.Reparse(code)
	if len(diagnostics) > 0 {
		return errors.Errorf("回读产生 %d 条诊断，第一条: %s", len(diagnostics), diagnostics[0])
	}

	regenerated := checker.GenerateCode(tree)
	if regenerated != code {
		line, want, got := firstDifference(code, regenerated)
		return errors.Errorf("往返校验失败，第 %d 行不一致: 期望 %q，实际 %q", line, want, got)
	}
	return nil
}

func (o *Obfuscator) logln(v ...interface{}) {
	if !o.Config.Silent {
		log.Println(v...)
	}
}

func (o *Obfuscator) logf(format string, v ...interface{}) {
	if !o.Config.Silent {
		log.Printf(format, v...)
	}
}
