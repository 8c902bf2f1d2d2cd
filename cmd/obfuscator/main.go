package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"js-obfuscator/ast"
	"js-obfuscator/obfuscator"
)

// 进程退出码
const (
	exitOK     = 0
	exitIO     = 1
	exitUsage  = 2
	exitVerify = 3
)

func printLogo(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "\033[1;35m     ██╗███████╗     ██████╗ ██████╗ ███████╗\033[0m")
	fmt.Fprintln(w, "\033[1;35m     ██║██╔════╝    ██╔═══██╗██╔══██╗██╔════╝\033[0m")
	fmt.Fprintln(w, "\033[1;35m     ██║███████╗    ██║   ██║██████╔╝█████╗  \033[0m")
	fmt.Fprintln(w, "\033[1;35m██   ██║╚════██║    ██║   ██║██╔══██╗██╔══╝  \033[0m")
	fmt.Fprintln(w, "\033[1;35m╚█████╔╝███████║    ╚██████╔╝██████╔╝██║     \033[0m")
	fmt.Fprintln(w, "\033[1;35m ╚════╝ ╚══════╝     ╚═════╝ ╚═════╝ ╚═╝     \033[0m")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "       \033[90mJavaScript 源码混淆工具\033[0m")
	fmt.Fprintln(w)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "用法: obfuscator [选项] <input.js>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "选项:")
	fmt.Fprintln(w, "  -h                          显示帮助信息")
	fmt.Fprintln(w, "  -o string                   输出文件 (默认: <input>.obf.js，'-' 表示标准输出)")
	fmt.Fprintln(w, "  -config string              YAML 配置文件 (可用 JSOBF_ 前缀的环境变量覆盖)")
	fmt.Fprintln(w, "  -write-config string        把默认配置写入指定文件后退出")
	fmt.Fprintln(w, "  -no-string-table            不把字符串提取到字符串表")
	fmt.Fprintln(w, "  -reserved string            追加保护名称 (逗号分隔)")
	fmt.Fprintln(w, "  -dump                       把混淆后的语法树输出到标准错误")
	fmt.Fprintln(w, "  -verify                     回读输出并校验往返一致")
	fmt.Fprintln(w, "  -silent                     不输出阶段日志和统计")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "退出码: 0 成功, 1 读写或配置错误, 2 参数错误, 3 往返校验失败")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "示例:")
	fmt.Fprintln(w, "  # 基础混淆")
	fmt.Fprintln(w, "  ./obfuscator app.js")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # 保留 jQuery 相关名称并输出到标准输出")
	fmt.Fprintln(w, "  ./obfuscator -reserved '$,jQuery' -o - app.js")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # 使用配置文件并校验结果")
	fmt.Fprintln(w, "  ./obfuscator -config obf.yaml -verify app.js")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("obfuscator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	var (
		outputPath    = fs.String("o", "", "输出文件 (默认: <input>.obf.js，'-' 表示标准输出)")
		configPath    = fs.String("config", "", "YAML 配置文件")
		writeConfig   = fs.String("write-config", "", "把默认配置写入指定文件后退出")
		noStringTable = fs.Bool("no-string-table", false, "不把字符串提取到字符串表")
		reserved      = fs.String("reserved", "", "追加保护名称 (逗号分隔)")
		dump          = fs.Bool("dump", false, "把混淆后的语法树输出到标准错误")
		verify        = fs.Bool("verify", false, "回读输出并校验往返一致")
		silent        = fs.Bool("silent", false, "不输出阶段日志和统计")
		showHelp      = fs.Bool("h", false, "显示帮助信息")
	)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}
	if *showHelp {
		printUsage(stderr)
		return exitOK
	}

	if *writeConfig != "" {
		if err := obfuscator.SaveConfig(*writeConfig, obfuscator.DefaultConfig()); err != nil {
			fmt.Fprintf(stderr, "错误: %v\n", err)
			return exitIO
		}
		fmt.Fprintf(stderr, "✓ 默认配置已写入 %s\n", *writeConfig)
		return exitOK
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "错误: 需要且只需要一个输入文件")
		printUsage(stderr)
		return exitUsage
	}
	input := fs.Arg(0)

	// 配置文件和环境变量在前，命令行参数覆盖
	config, err := obfuscator.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return exitIO
	}
	if *noStringTable {
		config.StringTable = false
	}
	if *silent {
		config.Silent = true
	}
	config.ReservedNames = append(config.ReservedNames, obfuscator.ParseNameList(*reserved)...)

	source, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(stderr, "错误: %v\n", errors.Wrapf(err, "无法读取输入文件 %s", input))
		return exitIO
	}

	output := *outputPath
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".obf.js"
	}

	log.SetOutput(stderr)
	if !config.Silent {
		printLogo(stderr)
		printConfiguration(stderr, input, output, config)
	}

	obf := obfuscator.New(config)
	result := obf.Run(string(source))

	if *dump {
		ast.Dump(stderr, result.Tree)
	}

	if err := writeOutput(output, result.Code, stdout); err != nil {
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return exitIO
	}

	if !config.Silent {
		printStatistics(stderr, obf.GetStatistics(), len(result.Diagnostics))
	}

	if *verify {
		if err := obf.Verify(result.Code); err != nil {
			fmt.Fprintf(stderr, "错误: %v\n", err)
			return exitVerify
		}
		if !config.Silent {
			fmt.Fprintln(stderr, "✓ 往返校验通过")
		}
	}

	if !config.Silent {
		fmt.Fprintln(stderr, "\n✅ 混淆完成!")
	}
	return exitOK
}

func writeOutput(path, code string, stdout io.Writer) error {
	if path == "-" {
		_, err := io.WriteString(stdout, code)
		return errors.Wrap(err, "写入标准输出失败")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "无法创建输出目录 %s", dir)
		}
	}
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return errors.Wrapf(err, "无法写入输出文件 %s", path)
	}
	return nil
}

func printConfiguration(w io.Writer, input, output string, config *obfuscator.Config) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "   JavaScript 混淆器")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "输入:  %s\n", input)
	fmt.Fprintf(w, "输出:  %s\n", output)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "配置选项:")
	fmt.Fprintf(w, "  字符串表:         %v\n", config.StringTable)
	fmt.Fprintf(w, "  名称前缀:         %s\n", config.NamePrefix)
	fmt.Fprintf(w, "  保护名称:         %d 个\n", len(config.ReservedNames))
	fmt.Fprintln(w)
}

func printStatistics(w io.Writer, stats *obfuscator.Statistics, diagnostics int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "   混淆统计")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "受保护名称: %d\n", stats.ReservedNames)
	fmt.Fprintf(w, "重命名标识符: %d\n", stats.IdentifiersRenamed)
	fmt.Fprintf(w, "字符串引用: %d (字符串表 %d 项)\n", stats.StringsInterned, stats.TableSize)
	fmt.Fprintf(w, "规范化数字: %d\n", stats.NumbersRewritten)
	if diagnostics > 0 {
		fmt.Fprintf(w, "诊断信息:   %d\n", diagnostics)
	}
}
