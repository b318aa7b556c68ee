package dashboard

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/campus/internal/config"
	"github.com/rileyhilliard/campus/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInfo() ServerInfo {
	return ServerInfo{
		Env:         config.EnvDevelopment,
		Host:        "localhost",
		Port:        3000,
		PID:         4242,
		StartedAt:   time.Date(2024, 3, 21, 9, 30, 0, 0, time.UTC),
		GoVersion:   "go1.24.11",
		Platform:    "linux/amd64",
		DocsEnabled: true,
		RequestLog:  true,
		SyncMode:    "alter",
	}
}

func testRecord() StatusRecord {
	return StatusRecord{
		Connected: true,
		Host:      "localhost",
		Database:  "school_admin",
		Entities: []EntityCount{
			{Name: "Users", Count: 42},
			{Name: "Courses", Count: 12345},
			{Name: "Orders", Failed: true, Reason: CountFailed},
		},
	}
}

func plain(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = ui.StripStyle(l)
	}
	return strings.Join(out, "\n")
}

func TestBuildPanelWidthInvariant(t *testing.T) {
	disconnected := StatusRecord{Host: "db", Database: "school_admin", Error: "connection refused"}
	withCache := testRecord()
	withCache.Cache = &CacheStatus{Addr: "localhost:6379", Error: "dial tcp: i/o timeout"}

	records := map[string]StatusRecord{
		"connected":    testRecord(),
		"disconnected": disconnected,
		"cache":        withCache,
		"empty":        {Connected: true},
	}

	for name, rec := range records {
		for _, width := range []int{60, 76, 100} {
			for _, theme := range []ui.Theme{ui.PlainTheme(), ui.DefaultTheme()} {
				lines := BuildPanel(testInfo(), rec, "⠋", width, theme).RenderWith(theme)
				for i, l := range lines {
					assert.Equal(t, width, ui.DisplayWidth(l), "%s width %d line %d: %q", name, width, i, ui.StripStyle(l))
				}
			}
		}
	}
}

func TestBuildPanelTitleBorder(t *testing.T) {
	lines := BuildPanel(testInfo(), testRecord(), "⠋", 76, ui.PlainTheme()).Render()

	require.NotEmpty(t, lines)
	top := ui.StripStyle(lines[0])
	assert.True(t, strings.HasPrefix(top, "╭─ 服务器状态 "))
	assert.Equal(t, 76, ui.DisplayWidth(top))
}

func TestBuildPanelContent(t *testing.T) {
	out := plain(BuildPanel(testInfo(), testRecord(), "⠹", 76, ui.PlainTheme()).RenderWith(ui.PlainTheme()))

	for _, want := range []string{
		"数据库连接 │ 已连接",
		"服务器状态 │ ⠹ 运行中",
		"进程 ID   │ 4242",
		"监听地址  │ localhost:3000",
		"启动时间  │ 2024-03-21 09:30:00",
		"Go版本    │ go1.24.11",
		"• Users (42条记录)",
		"• Courses (12,345条记录)",
		"• Orders (统计失败)",
		"接口文档      │ http://localhost:3000/api-docs",
		"Swagger JSON  │ http://localhost:3000/api-docs.json",
		"✓ 已启用数据库自动同步 (alter)",
		"✓ 已启用API文档",
		"✓ 已启用请求日志",
		"提示: 使用 DB_SYNC_ALTER=true 来自动同步表结构",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "缓存信息")
}

func TestBuildPanelErrorLine(t *testing.T) {
	rec := StatusRecord{
		Host:     "db",
		Database: "school",
		Error:    "dial postgres://admin:hunter2@db/school",
	}

	lines := BuildPanel(testInfo(), rec, "⠋", 76, ui.PlainTheme()).Render()
	out := plain(lines)

	assert.Contains(t, out, "数据库连接 │ 连接错误")
	assert.Contains(t, out, "错误信息  │ dial postgres://admin:***@db/school")
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "数据表信息")
	assert.Equal(t, "╰", string([]rune(ui.StripStyle(lines[len(lines)-1]))[0]), "panel is complete")
}

func TestBuildPanelUnknownHost(t *testing.T) {
	out := plain(BuildPanel(testInfo(), StatusRecord{Error: "boom"}, "⠋", 76, ui.PlainTheme()).Render())
	assert.Contains(t, out, "主机地址  │ 未知")
}

func TestBuildPanelProductionHidesDevSection(t *testing.T) {
	info := testInfo()
	info.Env = config.EnvProduction

	out := plain(BuildPanel(info, testRecord(), "⠋", 76, ui.PlainTheme()).Render())

	assert.NotContains(t, out, "开发模式配置")
	assert.Contains(t, out, "运行模式  │ production")
}

func TestBuildPanelDevFlags(t *testing.T) {
	tests := []struct {
		syncMode string
		want     string
	}{
		{"alter", "✓ 已启用数据库自动同步 (alter)"},
		{"force", "⚠ 已启用数据库强制同步 (force)"},
		{"", "✗ 未启用数据库同步"},
	}
	for _, tt := range tests {
		info := testInfo()
		info.SyncMode = tt.syncMode
		info.DocsEnabled = false
		info.RequestLog = false

		out := plain(BuildPanel(info, testRecord(), "⠋", 76, ui.PlainTheme()).Render())
		assert.Contains(t, out, tt.want)
		assert.Contains(t, out, "✗ 未启用API文档")
		assert.Contains(t, out, "✗ 未启用请求日志")
		assert.Contains(t, out, "接口文档      │ 未启用")
	}
}

func TestBuildPanelCache(t *testing.T) {
	rec := testRecord()
	rec.Cache = &CacheStatus{Addr: "localhost:6379", Connected: true}

	out := plain(BuildPanel(testInfo(), rec, "⠋", 76, ui.PlainTheme()).Render())
	assert.Contains(t, out, "缓存信息")
	assert.Contains(t, out, "服务地址  │ localhost:6379")
}

func TestWriteStatic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStatic(&buf, testInfo(), testRecord(), 76, ui.PlainTheme()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "╭─ 服务器状态"))
	assert.True(t, strings.HasSuffix(out, "╯\n"))
	assert.NotContains(t, out, "\x1b[")
}
