// Package cli 实现 rosepdf 命令行：生成申请表、助学金证明表、传单与二维码，
// 也可以把任意 .form 文件渲染成 PDF 或 PNG。
//
// 所有命令支持 -v 输出调试日志；日志器通过 context 传递给各个命令。
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger 创建写入 w、按 level 过滤的日志器，时间格式为 "15:04:05.00"。
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress 记录一次操作的开始时间，完成时带上耗时输出日志。
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext 取出 ctx 中的日志器，没有时返回 log.Default()。
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
