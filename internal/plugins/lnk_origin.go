package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/25smoking/lnkparse/internal/core"
)

// OriginPlugin 快捷方式由其他主机创建（TrackerDataBlock 中的 MachineID）
type OriginPlugin struct {
	// Hostname 为空时取当前主机名
	Hostname string
}

func (p *OriginPlugin) Name() string {
	return "LnkOrigin"
}

func (p *OriginPlugin) Run(ctx context.Context, config *core.ScanConfig) ([]core.Result, error) {
	var results []core.Result
	local := p.Hostname
	if local == "" {
		local = localHostname(ctx)
	}
	level := core.LevelLow
	if config.Rules != nil {
		level = levelOr(config.Rules.Origin.Level, level)
	}

	for _, a := range config.Artifacts {
		origin := a.Link.Hostname()
		if origin == "" || strings.EqualFold(origin, local) {
			continue
		}
		desc := fmt.Sprintf("快捷方式创建于其他主机 %s", origin)
		if t, ok := a.Link.ExtraData.Tracker(); ok && t.MACAddress != "" {
			desc += fmt.Sprintf(" (MAC %s)", t.MACAddress)
		}
		results = append(results, core.Result{
			Plugin:      p.Name(),
			Level:       level,
			Description: desc,
			Reference:   reference(a, targetOf(a.Link)),
			Advice:      "外来快捷方式常见于邮件附件、压缩包或可移动介质投递。",
		})
	}
	return results, nil
}
