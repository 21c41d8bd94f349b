package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/25smoking/lnkparse/internal/core"
	"github.com/shirou/gopsutil/v3/host"
)

// HostInfoPlugin 记录检查机信息，便于将快捷方式来源与本机区分
type HostInfoPlugin struct{}

func (p *HostInfoPlugin) Name() string {
	return "HostInfo"
}

func (p *HostInfoPlugin) Run(ctx context.Context, config *core.ScanConfig) ([]core.Result, error) {
	var results []core.Result

	// 获取主机信息
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}

	// 1. 操作系统信息
	results = append(results, core.Result{
		Plugin:      p.Name(),
		Level:       core.LevelInfo,
		Description: "检查机操作系统",
		Reference:   fmt.Sprintf("系统名称: %s, 版本: %s, 内核: %s", info.Platform, info.PlatformVersion, info.KernelVersion),
	})

	// 2. 主机名称
	results = append(results, core.Result{
		Plugin:      p.Name(),
		Level:       core.LevelInfo,
		Description: "检查机主机名称",
		Reference:   info.Hostname,
	})

	// 3. 解码统计
	hosts := map[string]int{}
	for _, a := range config.Artifacts {
		if h := a.Link.Hostname(); h != "" {
			hosts[strings.ToLower(h)]++
		}
	}
	results = append(results, core.Result{
		Plugin:      p.Name(),
		Level:       core.LevelInfo,
		Description: "已解码快捷方式",
		Reference:   fmt.Sprintf("共 %d 个，来源主机 %d 个", len(config.Artifacts), len(hosts)),
	})

	return results, nil
}

// localHostname 当前主机名，获取失败时为空
func localHostname(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return ""
	}
	return info.Hostname
}
