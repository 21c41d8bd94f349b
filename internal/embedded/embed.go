package embedded

import (
	"embed"
)

// Content 包含内嵌的默认分析规则
// 外部规则文件不存在时使用。
//
//go:embed config/*.yaml
var Content embed.FS
