// ycreportctl 离线处理专案档：由报表建立总表、合并、导出与检查
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ycreport/internal/config"
	"ycreport/internal/service/calculator"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ycreportctl",
		Short:         "雲嘉召會统计报表离线工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径 (预设为可执行文件同目录下的 config.toml)")

	root.AddCommand(newBuildCmd(), newMergeCmd(), newExportCmd(), newValidateCmd())
	return root
}

// loadConfig 读取配置；找不到文件时使用默认配置
func loadConfig() (*config.AppConfig, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, _, err := config.LoadConfigFrom(path)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	return cfg, nil
}

func loadEngine() (*calculator.Engine, *config.AppConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return calculator.NewEngine(cfg.Report.ToReportSettings()), cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}
