package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/25smoking/lnkparse/internal/core"
)

// TargetPlugin 目标或相对路径指向常被滥用的系统程序
type TargetPlugin struct{}

func (p *TargetPlugin) Name() string {
	return "LnkTarget"
}

func (p *TargetPlugin) Run(ctx context.Context, config *core.ScanConfig) ([]core.Result, error) {
	var results []core.Result
	if config.Rules == nil {
		return nil, nil
	}

	for _, a := range config.Artifacts {
		target := targetOf(a.Link)
		candidates := []string{target, a.Link.RelativePath.String(), environmentTarget(a.Link)}

	rules:
		for _, rule := range config.Rules.LOLBins {
			for _, c := range candidates {
				if c == "" || !strings.EqualFold(baseName(c), rule.Name) {
					continue
				}
				results = append(results, core.Result{
					Plugin:      p.Name(),
					Level:       levelOr(rule.Level, core.LevelMedium),
					Description: fmt.Sprintf("%s (%s)", rule.Description, rule.Name),
					Reference:   fmt.Sprintf("%s %s", reference(a, c), arguments(a.Link)),
					Advice:      "确认该快捷方式是否为用户自行创建，检查命令行参数。",
				})
				break rules
			}
		}
	}
	return results, nil
}
