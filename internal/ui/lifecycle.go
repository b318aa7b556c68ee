package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/campus/internal/errors"
	"github.com/rileyhilliard/campus/internal/logger"
)

// BannerWidth is the width of the "═" rules around lifecycle messages.
const BannerWidth = 60

// Lifecycle prints the startup-failure and shutdown messages that bracket
// the status panel.
type Lifecycle struct {
	out   io.Writer
	theme Theme
	log   logger.Logger
}

// NewLifecycle creates a Lifecycle writing to out and mirroring errors to log.
func NewLifecycle(out io.Writer, theme Theme, log logger.Logger) *Lifecycle {
	if log == nil {
		log = logger.Noop()
	}
	return &Lifecycle{out: out, theme: theme, log: log}
}

func (l *Lifecycle) rule() string {
	return l.theme.Dim.Render(strings.Repeat("═", BannerWidth))
}

func (l *Lifecycle) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(l.out, format, args...)
}

// Error prints a framed error with its details.
func (l *Lifecycle) Error(title string, err error) {
	l.printf("\n%s\n", l.rule())
	l.printf("%s\n", l.theme.Error.Render(fmt.Sprintf("\n%s %s\n", SymbolCrossBig, title)))
	l.printf("%s\n", l.theme.Error.Render("错误详情:"))
	l.printf("%s\n", errorText(err))
	l.printf("\n%s\n\n", l.rule())

	l.log.Error("%s: %s", title, errorText(err))
}

// ShutdownStarted announces that the server is going down.
func (l *Lifecycle) ShutdownStarted() {
	l.printf("\n%s\n", l.rule())
	l.printf("%s\n", l.theme.Warning.Render("\n正在关闭服务器...\n"))
	l.log.Info("shutdown started")
}

// ShutdownSucceeded reports a clean shutdown.
func (l *Lifecycle) ShutdownSucceeded() {
	l.printf("%s\n", l.theme.Success.Render(SymbolBullet+" HTTP服务器已关闭"))
	l.printf("%s\n", l.theme.Success.Render(SymbolBullet+" 数据库连接已关闭"))
	l.printf("%s\n", l.theme.Success.Render(fmt.Sprintf("\n%s 服务器已成功关闭 %s\n", SymbolSparkle, SymbolSparkle)))
	l.printf("%s\n\n", l.rule())
	l.log.Info("shutdown complete")
}

// ShutdownFailed reports an error raised while shutting down.
func (l *Lifecycle) ShutdownFailed(err error) {
	l.printf("%s\n", l.theme.Error.Render("服务器关闭时发生错误:"))
	l.printf("%s\n", errorText(err))
	l.printf("\n%s\n\n", l.rule())
	l.log.Error("shutdown failed: %s", errorText(err))
}

// errorText is err's message with credentials masked.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	return errors.Redact(err.Error())
}
