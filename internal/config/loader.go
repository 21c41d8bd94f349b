package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/25smoking/lnkparse/internal/embedded"
	"gopkg.in/yaml.v3"
)

// ========== Triage Rules ==========

type TriageRules struct {
	LOLBins             []LOLBinRule   `yaml:"lolbins"`
	SuspiciousArguments []ArgumentRule `yaml:"suspicious_arguments"`
	Entropy             EntropyRule    `yaml:"entropy"`
	Locations           LocationRule   `yaml:"locations"`
	Origin              OriginRule     `yaml:"origin"`
}

type LOLBinRule struct {
	Name        string `yaml:"name"`
	Level       string `yaml:"level"`
	Description string `yaml:"description"`
}

type ArgumentRule struct {
	Pattern     string `yaml:"pattern"`
	Level       string `yaml:"level"`
	Description string `yaml:"description"`
}

type EntropyRule struct {
	Threshold float64 `yaml:"threshold"`
	MinLength int     `yaml:"min_length"`
	Level     string  `yaml:"level"`
}

type LocationRule struct {
	DriveTypes     []string `yaml:"drive_types"`
	PathKeywords   []string `yaml:"path_keywords"`
	NetworkLevel   string   `yaml:"network_level"`
	RemovableLevel string   `yaml:"removable_level"`
	PathLevel      string   `yaml:"path_level"`
}

type OriginRule struct {
	Level string `yaml:"level"`
}

// ========== Loader Functions ==========

const triageRulesName = "triage_rules.yaml"

func loadConfigData(configPath, defaultName string) ([]byte, error) {
	// 1. 尝试从文件系统加载
	if configPath == "" {
		configPath = filepath.Join("config", defaultName)
	}

	// 尝试解析路径，如果文件存在则使用
	if _, err := os.Stat(configPath); err == nil {
		return os.ReadFile(configPath)
	}

	// 2. 回退到内嵌配置
	// 注意: embed总是使用正斜杠
	embedPath := "config/" + defaultName
	return embedded.Content.ReadFile(embedPath)
}

// LoadTriageRules 加载分析规则；configPath 为空或不存在时使用内嵌默认规则
func LoadTriageRules(configPath string) (*TriageRules, error) {
	data, err := loadConfigData(configPath, triageRulesName)
	if err != nil {
		return nil, fmt.Errorf("failed to read triage rules: %w", err)
	}
	return ParseTriageRules(data)
}

func ParseTriageRules(data []byte) (*TriageRules, error) {
	var rules TriageRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse triage rules: %w", err)
	}
	if rules.Entropy.Threshold < 0 || rules.Entropy.Threshold > 8 {
		return nil, fmt.Errorf("entropy threshold %.2f out of range [0, 8]", rules.Entropy.Threshold)
	}
	return &rules, nil
}

// GetConfigPath 获取配置文件的路径（兼容不同运行环境）
func GetConfigPath(filename string) string {
	// 尝试多个可能的路径
	candidates := []string{
		filepath.Join("config", filename),
		filepath.Join(".", "config", filename),
		filepath.Join("..", "config", filename),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	// 默认返回第一个路径
	return candidates[0]
}
