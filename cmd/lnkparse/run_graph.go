package main

import (
	"fmt"
	"io"
	"os"

	"github.com/25smoking/lnkparse/internal/graph"
	"github.com/25smoking/lnkparse/internal/scanner"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "graph [DIR...]",
		Short: "生成快捷方式关系图谱 (Graphviz DOT)",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := args
			if len(roots) == 0 {
				roots = defaultRoots()
			}

			a.log.Info("正在生成快捷方式关系图谱...")
			artifacts, failures, err := scanner.New(a.decoder, a.settings.Workers, a.logger).Scan(cmd.Context(), roots)
			if err != nil {
				return fmt.Errorf("scan interrupted: %w", err)
			}
			for _, f := range failures {
				a.log.Debugf("解析失败 %s: %v", f.Path, f.Err)
			}
			g := graph.Build(artifacts)

			var w io.Writer = cmd.OutOrStdout()
			if outputPath != "-" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("无法创建输出文件: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := g.ExportDOT(w); err != nil {
				return fmt.Errorf("写出 DOT 文件失败: %w", err)
			}

			if outputPath != "-" {
				a.log.Infof("图谱已生成: %s (%d 个节点, %d 条边)", outputPath, len(g.Nodes), len(g.Edges))
				a.log.Info("请使用 Graphviz 打开该文件，例如: dot -Tsvg " + outputPath + " -o graph.svg")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "dot", "d", "lnk_graph.dot", "DOT 输出文件，- 表示标准输出")
	return cmd
}
