package dashboard

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/campus/internal/config"
	"github.com/rileyhilliard/campus/internal/errors"
	"github.com/rileyhilliard/campus/internal/ui"
)

// PanelTitle is the title embedded in the top border.
const PanelTitle = "服务器状态"

// Label columns, wide enough for the longest label in each group.
const (
	labelWidth    = 10
	apiLabelWidth = 14
)

// ServerInfo is the static process information shown on the panel.
type ServerInfo struct {
	Env         string
	Host        string
	Port        int
	PID         int
	StartedAt   time.Time
	GoVersion   string
	Platform    string
	DocsEnabled bool
	RequestLog  bool
	SyncMode    string // "alter", "force" or ""
}

// BaseURL returns the http URL the server listens on.
func (s ServerInfo) BaseURL() string {
	return "http://" + s.Addr()
}

// Addr returns host:port.
func (s ServerInfo) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// BuildPanel assembles the status panel from static server info, the cached
// status record and the current spinner frame. It is rebuilt on every tick.
func BuildPanel(info ServerInfo, rec StatusRecord, frame string, width int, theme ui.Theme) ui.Panel {
	b := panelBuilder{theme: theme}

	sections := []ui.Section{
		{Lines: []string{
			b.field("数据库连接", b.connState(rec), labelWidth),
			b.field("服务器状态", theme.Success.Render(frame)+" "+theme.Success.Render("运行中"), labelWidth),
		}},
		{Title: "服务器信息", Lines: b.serverLines(info)},
		{Title: "数据库信息", Lines: b.databaseLines(rec)},
	}

	if rec.Cache != nil {
		sections = append(sections, ui.Section{Title: "缓存信息", Lines: b.cacheLines(rec.Cache)})
	}

	sections = append(sections, ui.Section{Title: "API信息", Lines: b.apiLines(info)})

	if info.Env == config.EnvDevelopment {
		sections = append(sections, ui.Section{Title: "开发模式配置", Lines: b.devLines(info, rec)})
	}

	return ui.Panel{Title: PanelTitle, Sections: sections, Width: width}
}

// WriteStatic renders the panel once, without screen control, for
// non-interactive output.
func WriteStatic(w io.Writer, info ServerInfo, rec StatusRecord, width int, theme ui.Theme) error {
	lines := BuildPanel(info, rec, ui.SymbolSuccess, width, theme).RenderWith(theme)
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

type panelBuilder struct {
	theme ui.Theme
}

// field renders "label    │ value" with the label padded to w columns.
func (b panelBuilder) field(label, value string, w int) string {
	pad := max(1, w-ui.DisplayWidth(label))
	return b.theme.Label.Render(label+strings.Repeat(" ", pad)+"│ ") + value
}

func (b panelBuilder) value(s string) string {
	return b.theme.Value.Render(s)
}

func (b panelBuilder) connState(rec StatusRecord) string {
	if rec.Connected {
		return b.theme.Success.Render("已连接")
	}
	return b.theme.Error.Render("连接错误")
}

func (b panelBuilder) serverLines(info ServerInfo) []string {
	return []string{
		b.field("运行模式", b.value(info.Env), labelWidth),
		b.field("进程 ID", b.value(strconv.Itoa(info.PID)), labelWidth),
		b.field("监听地址", b.value(info.Addr()), labelWidth),
		b.field("启动时间", b.value(info.StartedAt.Format("2006-01-02 15:04:05")), labelWidth),
		b.field("Go版本", b.value(info.GoVersion), labelWidth),
		b.field("系统平台", b.value(info.Platform), labelWidth),
	}
}

func (b panelBuilder) databaseLines(rec StatusRecord) []string {
	lines := []string{
		b.field("连接状态", b.connState(rec), labelWidth),
		b.field("主机地址", b.value(orUnknown(rec.Host)), labelWidth),
		b.field("数据库名", b.value(orUnknown(rec.Database)), labelWidth),
	}

	if rec.Error != "" {
		return append(lines, b.field("错误信息", b.theme.Error.Render(errorText(rec.Error)), labelWidth))
	}

	lines = append(lines, "", b.theme.Label.Render("数据表信息:"))
	if len(rec.Entities) == 0 {
		return append(lines, b.theme.Dim.Render("  (无)"))
	}
	for _, e := range rec.Entities {
		lines = append(lines, b.entityLine(e))
	}
	return lines
}

func (b panelBuilder) entityLine(e EntityCount) string {
	if e.Failed {
		return b.theme.Warning.Render(fmt.Sprintf("  %s %s (统计失败)", ui.SymbolBullet, e.Name))
	}
	return b.theme.Success.Render(fmt.Sprintf("  %s %s (%s条记录)", ui.SymbolBullet, e.Name, humanize.Comma(e.Count)))
}

func (b panelBuilder) cacheLines(c *CacheStatus) []string {
	lines := []string{b.field("服务地址", b.value(c.Addr), labelWidth)}
	if c.Connected {
		return append(lines, b.field("连接状态", b.theme.Success.Render("已连接"), labelWidth))
	}
	return append(lines,
		b.field("连接状态", b.theme.Error.Render("连接错误"), labelWidth),
		b.field("错误信息", b.theme.Error.Render(errorText(c.Error)), labelWidth),
	)
}

func (b panelBuilder) apiLines(info ServerInfo) []string {
	if !info.DocsEnabled {
		return []string{b.field("接口文档", b.theme.Dim.Render("未启用"), apiLabelWidth)}
	}
	base := info.BaseURL()
	return []string{
		b.field("接口文档", b.value(base+"/api-docs"), apiLabelWidth),
		b.field("Swagger JSON", b.value(base+"/api-docs.json"), apiLabelWidth),
	}
}

func (b panelBuilder) devLines(info ServerInfo, rec StatusRecord) []string {
	t := b.theme
	var lines []string

	switch info.SyncMode {
	case "alter":
		lines = append(lines, t.Success.Render(ui.SymbolSuccess+" 已启用数据库自动同步 (alter)"))
	case "force":
		lines = append(lines, t.Warning.Render(ui.SymbolWarning+" 已启用数据库强制同步 (force)"))
	default:
		lines = append(lines, t.Error.Render(ui.SymbolFail+" 未启用数据库同步"))
	}
	lines = append(lines,
		b.flag(info.DocsEnabled, "已启用API文档", "未启用API文档"),
		b.flag(info.RequestLog, "已启用请求日志", "未启用请求日志"),
		"",
		t.Label.Render("数据库表列表:"),
	)
	for _, e := range rec.Entities {
		lines = append(lines, t.Success.Render("  "+ui.SymbolBullet+" "+e.Name))
	}
	return append(lines, "", t.Dim.Render("提示: 使用 DB_SYNC_ALTER=true 来自动同步表结构"))
}

func (b panelBuilder) flag(on bool, yes, no string) string {
	if on {
		return b.theme.Success.Render(ui.SymbolSuccess + " " + yes)
	}
	return b.theme.Error.Render(ui.SymbolFail + " " + no)
}

// errorText flattens an error message onto one line and masks credentials.
func errorText(s string) string {
	return errors.Redact(strings.Join(strings.Fields(s), " "))
}

func orUnknown(s string) string {
	if s == "" {
		return "未知"
	}
	return s
}
