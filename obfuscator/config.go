package obfuscator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀，例如 JSOBF_STRING_TABLE=false
const EnvPrefix = "JSOBF"

// DefaultReservedNames 是宿主环境提供的常见绑定，默认不参与重命名
var DefaultReservedNames = []string{
	"console", "log", "warn", "error", "info",
	"true", "false", "null", "undefined", "NaN", "Infinity",
	"window", "document", "globalThis",
	"Math", "JSON", "Object", "Array", "String", "Number", "Boolean",
	"Promise", "Date", "RegExp", "Error", "Symbol",
	"parseInt", "parseFloat", "isNaN",
	"setTimeout", "setInterval", "clearTimeout", "clearInterval",
	"require", "module", "exports", "arguments",
	"fetch", "alert", "length", "push", "prototype",
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	reserved := make([]string, len(DefaultReservedNames))
	copy(reserved, DefaultReservedNames)
	return &Config{
		StringTable:   true,
		ReservedNames: reserved,
		NamePrefix:    "_0x",
		Silent:        false,
	}
}

// LoadConfig 依次叠加默认值、YAML 配置文件和 JSOBF_ 环境变量。
// path 为空时只使用默认值和环境变量；环境变量中的列表以逗号分隔
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("string_table", defaults.StringTable)
	v.SetDefault("reserved_names", defaults.ReservedNames)
	v.SetDefault("name_prefix", defaults.NamePrefix)
	v.SetDefault("silent", defaults.Silent)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "读取配置文件 %s 失败", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "解析配置失败")
	}
	if !isValidIdentifier(cfg.NamePrefix) {
		return nil, errors.Errorf("name_prefix %q 不是合法的标识符前缀", cfg.NamePrefix)
	}
	return cfg, nil
}

// SaveConfig 把配置写成 YAML 文件
func SaveConfig(path string, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "序列化配置失败")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "创建目录 %s 失败", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "写入配置文件 %s 失败", path)
	}
	return nil
}
