package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"ycreport/internal/model"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Report ReportConfig `toml:"report"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir    string `toml:"data_dir"`
	AutoBackup bool   `toml:"auto_backup"`
}

// ReportConfig 报表配置（区域结构、小排预设、目标名额）
type ReportConfig struct {
	Title              string             `toml:"title"`
	OtherGoalAllowance float64            `toml:"other_goal_allowance"`
	Regions            []model.Region     `toml:"regions"`
	ChildGroupSeeds    map[string]float64 `toml:"child_group_seeds"`
	TeenGroupSeeds     map[string]float64 `toml:"teen_group_seeds"`
	TemplatePath       string             `toml:"template_path"` // 导出模板，留空则建立新工作簿
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultTitle 默认报表标题
const DefaultTitle = "雲嘉召會統計報表"

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:    "data",
			AutoBackup: true,
		},
		Report: ReportConfig{
			Title:              DefaultTitle,
			OtherGoalAllowance: model.DefaultReportSettings().OtherGoalAllowance,
		},
	}
}

// ToReportSettings 转为计算引擎配置；未配置的部分使用预设
func (c ReportConfig) ToReportSettings() model.ReportSettings {
	settings := model.DefaultReportSettings()
	if len(c.Regions) > 0 {
		settings.Taxonomy = model.Taxonomy(c.Regions)
	}
	if c.ChildGroupSeeds != nil {
		settings.ChildGroupSeeds = c.ChildGroupSeeds
	}
	if c.TeenGroupSeeds != nil {
		settings.TeenGroupSeeds = c.TeenGroupSeeds
	}
	if c.OtherGoalAllowance >= 0 {
		settings.OtherGoalAllowance = c.OtherGoalAllowance
	}
	return settings
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadConfigFrom(DefaultConfigPath())
}

// LoadConfigFrom 从指定路径加载配置；文件不存在时使用默认配置
func LoadConfigFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: configPath}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, info, err
	}
	if err == nil {
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	}

	// 环境变量覆盖（用于 E2E / 本地运行）
	if v := os.Getenv("YCREPORT_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("YCREPORT_TITLE"); v != "" {
		config.Report.Title = v
	}

	return config, info, nil
}

// EnsureDataDir 确保数据目录存在
// 相对路径以可执行文件所在目录为基准
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"projects", "exports", "backups"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
