// Package ui provides the terminal rendering primitives for campus.
//
// # Width
//
// Terminal columns are not bytes or runes. DisplayWidth strips ANSI escape
// sequences and counts wide runes (CJK ideographs, CJK punctuation,
// fullwidth forms, wide emoji) as two columns:
//
//	ui.DisplayWidth("\x1b[1m服务器\x1b[0m") // 6
//
// # Boxes
//
// RenderBox lays sections out inside a rounded border of a fixed total
// width. Every line comes back padded to exactly that width, which is what
// lets the dashboard overwrite a previous frame in place:
//
//	lines := ui.RenderBox("服务器状态", []ui.Section{
//		{Lines: []string{"运行模式  │ development"}},
//		{Title: "数据库信息", Lines: []string{"连接状态  │ 已连接"}},
//	}, 78)
//
// # Color Scheme
//
// Colors follow the Nord palette (see Theme and DefaultTheme). Use
// DisableColors() to switch to monochrome output (for --no-color).
//
// # Spinners and lifecycle messages
//
// Spinner is a single-line animated indicator built on anim.Loop;
// StartupAnimation shows the boot progress bar. Lifecycle prints the framed
// error and shutdown messages around the dashboard.
package ui
