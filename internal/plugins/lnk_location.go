package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/25smoking/lnkparse/internal/core"
)

// LocationPlugin 目标位于网络共享、可移动介质或可疑目录
type LocationPlugin struct{}

func (p *LocationPlugin) Name() string {
	return "LnkLocation"
}

func (p *LocationPlugin) Run(ctx context.Context, config *core.ScanConfig) ([]core.Result, error) {
	var results []core.Result
	if config.Rules == nil {
		return nil, nil
	}
	rule := config.Rules.Locations

	for _, a := range config.Artifacts {
		target := targetOf(a.Link)
		ref := reference(a, target)

		if info := a.Link.LinkInfo; info != nil {
			if cnrl := info.CommonNetworkRelativeLink; cnrl != nil {
				results = append(results, core.Result{
					Plugin:      p.Name(),
					Level:       levelOr(rule.NetworkLevel, core.LevelMedium),
					Description: fmt.Sprintf("目标位于网络共享 %s", cnrl.ShareName()),
					Reference:   ref,
					Advice:      "检查该共享是否为内部可信地址，外部 SMB 地址可能用于窃取 NTLM 凭据。",
				})
			}
			if vol := info.VolumeID; vol != nil && containsFold(rule.DriveTypes, vol.DriveType.String()) {
				results = append(results, core.Result{
					Plugin:      p.Name(),
					Level:       levelOr(rule.RemovableLevel, core.LevelLow),
					Description: fmt.Sprintf("目标位于 %s 卷 (序列号 %s)", vol.DriveType, vol.SerialNumber),
					Reference:   ref,
				})
			}
		}

		lower := strings.ToLower(target)
		for _, kw := range rule.PathKeywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				results = append(results, core.Result{
					Plugin:      p.Name(),
					Level:       levelOr(rule.PathLevel, core.LevelMedium),
					Description: fmt.Sprintf("目标位于可疑目录 (%s)", kw),
					Reference:   ref,
				})
				break
			}
		}
	}
	return results, nil
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
