package main

import (
	"errors"
	"fmt"

	"github.com/25smoking/lnkparse/internal/forensics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newParseCmd(a *app) *cobra.Command {
	var normalize bool

	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "解码 .lnk 文件并输出结构化记录",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				links []*forensics.LinkFile
				flat  []map[string]string
				errs  []error
			)
			for _, path := range args {
				lnk, err := a.decoder.DecodeFile(path)
				if err != nil {
					a.logger.Error("解析失败", zap.String("path", path), zap.Error(err))
					errs = append(errs, err)
					continue
				}
				if normalize {
					flat = append(flat, lnk.Normalize())
				} else {
					links = append(links, lnk)
				}
			}

			out := cmd.OutOrStdout()
			var err error
			if normalize {
				if len(flat) > 0 {
					err = writeRecords(out, a.settings.Output, flat)
				}
			} else if len(links) > 0 {
				err = writeRecords(out, a.settings.Output, links)
			}
			if err != nil {
				return err
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d of %d files failed: %w", len(errs), len(args), errors.Join(errs...))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&normalize, "normalize", "n", false, "输出固定 10 个字段的扁平记录")
	return cmd
}
