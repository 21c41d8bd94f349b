package core

import (
	"context"

	"github.com/25smoking/lnkparse/internal/config"
	"github.com/25smoking/lnkparse/internal/forensics"
)

// Artifact 一个已解码的快捷方式及其来源路径
type Artifact struct {
	Path string
	Link *forensics.LinkFile
}

// ScanConfig 保存一次扫描会话的全局配置与解码结果
type ScanConfig struct {
	Debug      bool
	Output     string
	ReportPath string
	Rules      *config.TriageRules
	Artifacts  []Artifact
}

func NewScanConfig(debug bool, output string, rules *config.TriageRules) *ScanConfig {
	return &ScanConfig{
		Debug:  debug,
		Output: output,
		Rules:  rules,
	}
}

// 结果等级
const (
	LevelInfo     = "INFO"
	LevelLow      = "low"
	LevelMedium   = "medium"
	LevelHigh     = "high"
	LevelCritical = "critical"
	LevelError    = "error"
)

// Result 代表分析插件的一个发现结果
type Result struct {
	Plugin      string `json:"plugin"`      // 插件名称
	Level       string `json:"level"`       // "INFO", "low", "medium", "high", "critical"
	Description string `json:"description"` // 描述
	Reference   string `json:"reference"`   // 引用 (快捷方式路径、目标路径等)
	Advice      string `json:"advice,omitempty"`
}

// Plugin 是所有分析模块必须实现的接口
type Plugin interface {
	Name() string
	Run(ctx context.Context, config *ScanConfig) ([]Result, error)
}
