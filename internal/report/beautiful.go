package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/25smoking/lnkparse/internal/core"
)

// ANSI 颜色代码
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorWhite   = "\033[37m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"
)

// 图标
const (
	IconSuccess  = "✓"
	IconWarning  = "⚠"
	IconError    = "✗"
	IconInfo     = "ℹ"
	IconCritical = "☠"
	IconScan     = "🔍"
	IconShield   = "🛡"
	IconLink     = "🔗"
)

// BeautifulReporter 终端彩色输出
type BeautifulReporter struct {
	out       io.Writer
	startTime time.Time
	results   []core.Result
	artifacts []core.Artifact
}

func NewBeautifulReporter() *BeautifulReporter {
	return NewBeautifulReporterTo(os.Stdout)
}

// NewBeautifulReporterTo 输出到任意 Writer
func NewBeautifulReporterTo(w io.Writer) *BeautifulReporter {
	return &BeautifulReporter{
		out:       w,
		startTime: time.Now(),
		results:   make([]core.Result, 0),
	}
}

func (r *BeautifulReporter) PrintBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════════╗
║                                                               ║
║     lnkparse  ::  Windows Shell Link 取证解析工具              ║
║               Shortcut Forensics & Triage                     ║
║                                                               ║
╚═══════════════════════════════════════════════════════════════╝
`
	fmt.Fprintln(r.out, ColorCyan+banner+ColorReset)
}

func (r *BeautifulReporter) PrintSection(title string) {
	line := strings.Repeat("─", 65)
	fmt.Fprintf(r.out, "\n%s┌%s┐%s\n", ColorBlue, line, ColorReset)
	fmt.Fprintf(r.out, "%s│ %s%-63s%s │%s\n", ColorBlue, ColorBold+ColorWhite, title, ColorReset+ColorBlue, ColorReset)
	fmt.Fprintf(r.out, "%s└%s┘%s\n\n", ColorBlue, line, ColorReset)
}

func (r *BeautifulReporter) PrintPluginStart(pluginName string, artifactCount int) {
	if artifactCount > 0 {
		fmt.Fprintf(r.out, "%s %s[%s]%s 分析 %s%d%s 个快捷方式\n",
			IconScan, ColorCyan, pluginName, ColorReset, ColorYellow, artifactCount, ColorReset)
	} else {
		fmt.Fprintf(r.out, "%s %s[%s]%s 启动分析...\n",
			IconScan, ColorCyan, pluginName, ColorReset)
	}
}

func (r *BeautifulReporter) PrintPluginComplete(pluginName string, duration time.Duration, findingCount int) {
	icon := IconSuccess
	color := ColorGreen

	if findingCount > 0 {
		icon = IconWarning
		color = ColorYellow
	}

	fmt.Fprintf(r.out, "%s %s[%s]%s 完成 - 用时 %s%.2fs%s - 发现 %s%d%s 项\n",
		icon, color, pluginName, ColorReset,
		ColorDim, duration.Seconds(), ColorReset,
		color, findingCount, ColorReset)
}

func (r *BeautifulReporter) AddResult(result core.Result) {
	r.results = append(r.results, result)
}

// AddArtifacts 记录本次解码的快捷方式，用于概览表
func (r *BeautifulReporter) AddArtifacts(artifacts []core.Artifact) {
	r.artifacts = append(r.artifacts, artifacts...)
}

// PrintArtifacts 每个快捷方式一行：路径 -> 目标 @ 主机
func (r *BeautifulReporter) PrintArtifacts() {
	if len(r.artifacts) == 0 {
		return
	}
	r.PrintSection(fmt.Sprintf("快捷方式概览 (%d)", len(r.artifacts)))
	for _, a := range r.artifacts {
		target := a.Link.TargetFullPath
		if target == "" {
			target = ColorDim + "(未知目标)" + ColorReset
		}
		fmt.Fprintf(r.out, "%s %s\n    -> %s", IconLink, a.Path, target)
		if host := a.Link.Hostname(); host != "" {
			fmt.Fprintf(r.out, " %s@ %s%s", ColorDim, host, ColorReset)
		}
		fmt.Fprintln(r.out)
	}
	fmt.Fprintln(r.out)
}

func (r *BeautifulReporter) PrintResults() {
	if len(r.results) == 0 {
		r.PrintSection("分析结果")
		fmt.Fprintf(r.out, "%s %s 未发现可疑的快捷方式%s\n\n",
			IconShield, ColorGreen+"[CLEAN]"+ColorReset, ColorReset)
		return
	}

	stats := countLevels(r.results)

	r.PrintSection("风险统计")
	fmt.Fprintf(r.out, "  %s Critical: %s%-3d%s  %s High: %s%-3d%s  %s Medium: %s%-3d%s  %s Low: %s%-3d%s\n\n",
		IconCritical, ColorRed+ColorBold, stats[core.LevelCritical], ColorReset,
		IconError, ColorRed, stats[core.LevelHigh], ColorReset,
		IconWarning, ColorYellow, stats[core.LevelMedium], ColorReset,
		IconInfo, ColorCyan, stats[core.LevelLow], ColorReset)

	r.PrintSection("风险详情")

	for i, res := range r.results {
		if strings.EqualFold(res.Level, core.LevelInfo) {
			continue
		}

		icon, color := levelStyle(res.Level)

		fmt.Fprintf(r.out, "%s%s (%d/%d) [%s]%s %s\n",
			ColorBold, icon, i+1, len(r.results), res.Plugin, ColorReset, res.Description)
		fmt.Fprintf(r.out, "  %s级别:%s %s%s%s\n", ColorDim, ColorReset, color, res.Level, ColorReset)
		if res.Reference != "" {
			fmt.Fprintf(r.out, "  %s位置:%s %s\n", ColorDim, ColorReset, res.Reference)
		}
		if res.Advice != "" {
			fmt.Fprintf(r.out, "  %s建议:%s %s%s%s\n", ColorDim, ColorReset, ColorYellow, res.Advice, ColorReset)
		}
		fmt.Fprintln(r.out)
	}
}

func levelStyle(level string) (string, string) {
	switch strings.ToLower(level) {
	case core.LevelCritical:
		return IconCritical, ColorRed + ColorBold
	case core.LevelHigh:
		return IconError, ColorRed
	case core.LevelMedium:
		return IconWarning, ColorYellow
	case core.LevelLow:
		return IconInfo, ColorCyan
	default:
		return IconInfo, ColorWhite
	}
}

// countLevels 未识别的级别（INFO、error）归入 low
func countLevels(results []core.Result) map[string]int {
	stats := map[string]int{
		core.LevelCritical: 0,
		core.LevelHigh:     0,
		core.LevelMedium:   0,
		core.LevelLow:      0,
	}
	for _, r := range results {
		l := strings.ToLower(r.Level)
		if _, ok := stats[l]; ok {
			stats[l]++
		} else {
			stats[core.LevelLow]++
		}
	}
	return stats
}

func (r *BeautifulReporter) PrintSummary() {
	duration := time.Since(r.startTime)

	r.PrintSection("分析摘要")
	fmt.Fprintf(r.out, "  %s开始时间:%s %s\n", ColorDim, ColorReset, r.startTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(r.out, "  %s总耗时:%s   %s%.2f 秒%s\n", ColorDim, ColorReset, ColorGreen, duration.Seconds(), ColorReset)
	fmt.Fprintf(r.out, "  %s快捷方式:%s %s%d 个%s\n", ColorDim, ColorReset, ColorCyan, len(r.artifacts), ColorReset)
	fmt.Fprintf(r.out, "  %s总发现:%s   %s%d 项%s\n\n", ColorDim, ColorReset, ColorYellow, len(r.results), ColorReset)
}

func (r *BeautifulReporter) PrintFooter() {
	footer := `
╔═══════════════════════════════════════════════════════════════╗
║  lnkparse - 快捷方式取证解析                                   ║
║  GitHub: https://github.com/25smoking/lnkparse                ║
╚═══════════════════════════════════════════════════════════════╝
`
	fmt.Fprintln(r.out, ColorCyan+footer+ColorReset)
}
