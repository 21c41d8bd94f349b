package main

import (
	"fmt"
	"os"

	"github.com/25smoking/lnkparse/internal/config"
	"github.com/25smoking/lnkparse/internal/forensics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app 一次命令执行共享的状态，由 PersistentPreRunE 填充
type app struct {
	v        *viper.Viper
	cfgFile  string
	settings *config.Settings
	logger   *zap.Logger
	log      *zap.SugaredLogger
	decoder  *forensics.Decoder
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "lnkparse",
		Short: "lnkparse - Windows 快捷方式 (.lnk) 取证解析工具",
		Long: `lnkparse 解码 Windows Shell Link (.lnk) 文件，还原目标路径、卷信息、网络共享、
命令行参数以及创建快捷方式的主机名，并对快捷方式进行可疑性分析。`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "配置文件 (默认查找 ./lnkparse.yaml)")
	flags.String("codepage", "windows-1252", "8 位字符串使用的 ANSI 代码页 (如 gbk, shift_jis)")
	flags.IntP("workers", "w", 4, "并发解码的文件数")
	flags.StringP("output", "o", "json", "输出格式: json | yaml")
	flags.String("rules", "", "分析规则文件 (默认使用内置规则)")
	flags.BoolP("verbose", "v", false, "输出调试日志")
	for _, name := range []string{"codepage", "workers", "output", "rules", "verbose"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(newParseCmd(a), newScanCmd(a), newGraphCmd(a))
	return rootCmd
}

func (a *app) init() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	}
	settings, err := config.LoadSettings(a.v)
	if err != nil {
		return err
	}
	a.settings = settings

	if settings.Verbose {
		a.logger, err = zap.NewDevelopment()
	} else {
		a.logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.log = a.logger.Sugar()

	enc, err := forensics.LookupCodepage(settings.Codepage)
	if err != nil {
		return err
	}
	a.decoder = forensics.NewDecoder(
		forensics.WithCodepage(enc),
		forensics.WithLogger(a.logger),
	)
	a.log.Debugw("settings loaded",
		"codepage", settings.Codepage,
		"workers", settings.Workers,
		"config", a.v.ConfigFileUsed())
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
