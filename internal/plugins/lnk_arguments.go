package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/25smoking/lnkparse/internal/core"
	"github.com/25smoking/lnkparse/internal/forensics"
)

// 属性对话框只显示前 260 个字符，超长参数可用于隐藏真实命令
const visibleArgumentsLen = 260

// ArgumentsPlugin 命令行参数中的编码、隐藏执行与混淆
type ArgumentsPlugin struct{}

func (p *ArgumentsPlugin) Name() string {
	return "LnkArguments"
}

func (p *ArgumentsPlugin) Run(ctx context.Context, config *core.ScanConfig) ([]core.Result, error) {
	var results []core.Result
	if config.Rules == nil {
		return nil, nil
	}

	for _, a := range config.Artifacts {
		args := arguments(a.Link)
		if args == "" {
			continue
		}
		lower := strings.ToLower(args)
		ref := reference(a, targetOf(a.Link))

		for _, rule := range config.Rules.SuspiciousArguments {
			if rule.Pattern == "" || !strings.Contains(lower, strings.ToLower(rule.Pattern)) {
				continue
			}
			results = append(results, core.Result{
				Plugin:      p.Name(),
				Level:       levelOr(rule.Level, core.LevelMedium),
				Description: fmt.Sprintf("参数可疑: %s", rule.Description),
				Reference:   fmt.Sprintf("%s | 参数: %s", ref, args),
			})
		}

		entropy := config.Rules.Entropy
		if entropy.Threshold > 0 && len(args) >= entropy.MinLength {
			if h := forensics.CalculateEntropy([]byte(args)); h > entropy.Threshold {
				results = append(results, core.Result{
					Plugin:      p.Name(),
					Level:       levelOr(entropy.Level, core.LevelMedium),
					Description: fmt.Sprintf("参数熵值过高 (%.2f)，疑似混淆或编码载荷", h),
					Reference:   ref,
					Advice:      "尝试解码参数内容并还原实际执行的命令。",
				})
			}
		}

		if len([]rune(args)) > visibleArgumentsLen {
			results = append(results, core.Result{
				Plugin:      p.Name(),
				Level:       core.LevelMedium,
				Description: fmt.Sprintf("参数长度 %d 超出属性对话框可见范围", len([]rune(args))),
				Reference:   ref,
			})
		}
	}
	return results, nil
}
