package obfuscator

import (
	"js-obfuscator/ast"
)

// Obfuscator 是混淆器的主结构体，一个实例同时只承载一次运行的状态
type Obfuscator struct {
	// 名称映射：原始名称 -> 混淆名称
	nameMapping map[string]string
	issuedNames map[string]bool

	// 保护名称
	reservedNames map[string]bool

	// 名称生成器
	names *NameGenerator

	// 字符串表
	stringTable  []string
	stringIndex  map[string]int
	tableName    string
	accessorName string

	// 统计
	numbersRewritten int
	stringsInterned  int

	// 配置选项
	Config *Config
}

// Config 存储混淆配置
type Config struct {
	StringTable   bool     `mapstructure:"string_table" yaml:"string_table"`     // 是否把字符串字面量提取到字符串表
	ReservedNames []string `mapstructure:"reserved_names" yaml:"reserved_names"` // 不参与重命名和间接访问的宿主名称
	NamePrefix    string   `mapstructure:"name_prefix" yaml:"name_prefix"`       // 生成名称的前缀
	Silent        bool     `mapstructure:"silent" yaml:"silent"`                 // 是否关闭阶段日志
}

// Statistics 存储混淆统计信息
type Statistics struct {
	IdentifiersRenamed int
	StringsInterned    int
	TableSize          int
	NumbersRewritten   int
	ReservedNames      int
}

// Result 是一次完整流水线运行的输出
type Result struct {
	Code        string
	Tree        *ast.Node
	Diagnostics []string
}
