package plugins

import (
	"fmt"
	"strings"

	"github.com/25smoking/lnkparse/internal/core"
	"github.com/25smoking/lnkparse/internal/forensics"
)

// All 返回全部分析插件，HostInfo 在前
func All() []core.Plugin {
	return []core.Plugin{
		&HostInfoPlugin{},
		&TargetPlugin{},
		&ArgumentsPlugin{},
		&LocationPlugin{},
		&OriginPlugin{},
	}
}

func levelOr(level, def string) string {
	if level == "" {
		return def
	}
	return level
}

// baseName 取 Windows 路径的最后一段
func baseName(p string) string {
	if i := strings.LastIndexAny(p, `\/`); i >= 0 {
		return p[i+1:]
	}
	return p
}

func targetOf(lnk *forensics.LinkFile) string {
	if p, ok := lnk.Path(); ok {
		return p
	}
	return ""
}

func arguments(lnk *forensics.LinkFile) string {
	return lnk.Arguments.String()
}

// environmentTarget EnvironmentVariableDataBlock 中的目标，例如 %COMSPEC%
func environmentTarget(lnk *forensics.LinkFile) string {
	if lnk.ExtraData == nil {
		return ""
	}
	for _, b := range lnk.ExtraData.Blocks {
		if env, ok := b.(*forensics.EnvironmentBlock); ok {
			return env.Target()
		}
	}
	return ""
}

func reference(a core.Artifact, target string) string {
	if target == "" {
		target = "<无法解析目标>"
	}
	return fmt.Sprintf("%s -> %s", a.Path, target)
}
