package core

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

type loggerKey struct{}

// WithLogger 将日志记录器放入 context，供 SafeRun 记录 panic
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// SafeRun 安全执行插件，捕获 panic 并转换为错误
func SafeRun(plugin Plugin, ctx context.Context, cfg *ScanConfig) (results []Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			err = fmt.Errorf("插件 %s 发生 panic: %v", plugin.Name(), r)

			// 记录到日志
			if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
				logger.Error("插件执行 panic",
					zap.String("plugin", plugin.Name()),
					zap.Any("panic", r),
					zap.String("stack", stack),
				)
			}

			// 返回一个包含错误信息的结果
			results = []Result{
				{
					Plugin:      plugin.Name(),
					Level:       LevelError,
					Description: fmt.Sprintf("插件执行异常: %v", r),
					Reference:   "请检查日志获取详细堆栈信息",
				},
			}
		}
	}()

	return plugin.Run(ctx, cfg)
}
