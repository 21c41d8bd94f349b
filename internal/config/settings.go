package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings 运行时设置：默认值 < lnkparse.yaml < LNKPARSE_* 环境变量 < 命令行参数
type Settings struct {
	Codepage  string `mapstructure:"codepage"`
	Workers   int    `mapstructure:"workers"`
	Output    string `mapstructure:"output"`
	Report    string `mapstructure:"report"`
	ReportDir string `mapstructure:"report_dir"`
	Rules     string `mapstructure:"rules"`
	Verbose   bool   `mapstructure:"verbose"`
}

// NewViper 创建带默认值的独立 viper 实例，命令行参数由调用方绑定
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("lnkparse")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.lnkparse")

	v.SetDefault("codepage", "windows-1252")
	v.SetDefault("workers", 4)
	v.SetDefault("output", "json")
	v.SetDefault("report", "all")
	v.SetDefault("report_dir", ".")
	v.SetDefault("rules", GetConfigPath(triageRulesName))
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("LNKPARSE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings 读取可选的配置文件并校验
func LoadSettings(v *viper.Viper) (*Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if s.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	switch s.Output {
	case "json", "yaml":
	default:
		return nil, fmt.Errorf("unsupported output format %q", s.Output)
	}
	return &s, nil
}
