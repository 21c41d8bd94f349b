package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/25smoking/lnkparse/internal/config"
	"github.com/25smoking/lnkparse/internal/core"
	"github.com/25smoking/lnkparse/internal/plugins"
	"github.com/25smoking/lnkparse/internal/report"
	"github.com/25smoking/lnkparse/internal/scanner"
	"github.com/spf13/cobra"
)

func newScanCmd(a *app) *cobra.Command {
	var modules string

	cmd := &cobra.Command{
		Use:   "scan [DIR...]",
		Short: "扫描目录中的快捷方式并进行可疑性分析",
		Long: `扫描目录（默认为当前用户的 Recent、桌面与开始菜单目录），按内容识别快捷方式，
并发解码后运行分析插件，输出终端报告、JSON/CSV 结果、HTML 报告与 CSV 时间线。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := args
			if len(roots) == 0 {
				roots = defaultRoots()
			}
			if len(roots) == 0 {
				return fmt.Errorf("no scan roots given and no default roots on %s", osName())
			}
			return a.runScan(cmd, roots, modules)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&modules, "module", "m", "", "指定分析插件 (e.g. target,arguments,location,origin)")
	flags.String("report", "all", "结果导出格式: all | json | csv | none")
	flags.String("report-dir", ".", "报告输出目录")
	_ = a.v.BindPFlag("report", flags.Lookup("report"))
	_ = a.v.BindPFlag("report_dir", flags.Lookup("report-dir"))
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, roots []string, modules string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx = core.WithLogger(ctx, a.logger)

	rules, err := config.LoadTriageRules(a.settings.Rules)
	if err != nil {
		return err
	}

	reporter := report.NewBeautifulReporterTo(cmd.OutOrStdout())
	reporter.PrintBanner()
	fmt.Fprintf(cmd.OutOrStdout(), "扫描目录: %s\n", strings.Join(roots, ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "代码页: %s  并发: %d\n", a.settings.Codepage, a.settings.Workers)

	reporter.PrintSection("解码快捷方式")
	sc := scanner.New(a.decoder, a.settings.Workers, a.logger)
	artifacts, failures, err := sc.Scan(ctx, roots)
	if err != nil {
		return fmt.Errorf("scan interrupted: %w", err)
	}
	for _, f := range failures {
		a.log.Warnf("解析失败 %s: %v", f.Path, f.Err)
	}
	a.log.Infof("共解码 %d 个快捷方式，失败 %d 个", len(artifacts), len(failures))
	reporter.AddArtifacts(artifacts)

	scanCfg := core.NewScanConfig(a.settings.Verbose, a.settings.Output, rules)
	scanCfg.Artifacts = artifacts
	scanCfg.ReportPath = a.settings.ReportDir

	reporter.PrintSection("开始分析")
	var allResults []core.Result
	for _, p := range selectPlugins(plugins.All(), modules, a) {
		start := time.Now()
		reporter.PrintPluginStart(p.Name(), len(artifacts))

		results, err := core.SafeRun(p, ctx, scanCfg)
		if err != nil {
			a.log.Errorf("插件 %s 运行失败: %v", p.Name(), err)
		}
		allResults = append(allResults, results...)
		for _, r := range results {
			reporter.AddResult(r)
		}
		reporter.PrintPluginComplete(p.Name(), time.Since(start), len(results))
	}

	reporter.PrintArtifacts()
	reporter.PrintResults()
	reporter.PrintSummary()

	return a.writeReports(cmd, allResults, artifacts)
}

func (a *app) writeReports(cmd *cobra.Command, results []core.Result, artifacts []core.Artifact) error {
	format := a.settings.Report
	if format == "none" {
		return nil
	}
	dir := a.settings.ReportDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}

	files, err := core.SaveResults(results, format, dir)
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	timeline := filepath.Join(dir, fmt.Sprintf("lnkparse_timeline_%s.csv", stamp))
	if err := core.SaveTimeline(artifacts, timeline); err != nil {
		return fmt.Errorf("failed to save timeline: %w", err)
	}
	htmlFile := filepath.Join(dir, fmt.Sprintf("lnkparse_report_%s.html", stamp))
	if err := report.GenerateHTML(results, artifacts, htmlFile); err != nil {
		return fmt.Errorf("failed to generate html report: %w", err)
	}
	files = append(files, timeline, htmlFile)

	for _, f := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  报告已生成: %s\n", report.IconSuccess, f)
	}
	return nil
}

// selectPlugins 按 -m 关键字过滤，HostInfo 总是保留
func selectPlugins(all []core.Plugin, modules string, a *app) []core.Plugin {
	if modules == "" {
		return all
	}
	keywords := strings.Split(strings.ToLower(modules), ",")
	var filtered []core.Plugin
	for _, p := range all {
		name := strings.ToLower(p.Name())
		if name == "hostinfo" {
			filtered = append(filtered, p)
			continue
		}
		for _, k := range keywords {
			k = strings.TrimSpace(k)
			if k != "" && strings.Contains(name, k) {
				filtered = append(filtered, p)
				break
			}
		}
	}
	if len(filtered) <= 1 {
		a.log.Warnf("未找到匹配模块 '%s' 的插件，将运行所有插件", modules)
		return all
	}
	return filtered
}
