package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/moyu-x/file-organizer/pkg/notify"
)

func (m *model) View() string {
	switch m.state {
	case StateSelect:
		return m.selectView()
	case StateExecuting:
		return m.executingView()
	case StateComplete:
		return m.completeView()
	default:
		return "未知状态"
	}
}

func (m *model) selectView() string {
	var b strings.Builder

	title := "📦 文件整理"
	if m.dryRun {
		title += "（预览模式）"
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(filePathStyle.Render(m.root) + "\n\n")

	b.WriteString(focusedStyle.Render(m.list.View()) + "\n\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf("已选择 %d/%d", len(m.selected()), len(m.items))) + "\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("操作提示：") + "\n")
	b.WriteString("  • Space 勾选/取消当前文件\n")
	b.WriteString("  • a 全选/全不选\n")
	b.WriteString("  • Enter 执行选中的移动\n")
	b.WriteString("  • q 退出\n")

	return lipgloss.NewStyle().
		Padding(1).
		Render(b.String())
}

func (m *model) executingView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.spinner.View()+" 正在移动文件...") + "\n\n")
	b.WriteString(labelStyle.Render("处理进度：") + "\n")
	b.WriteString(m.progress.View() + "\n\n")
	b.WriteString(fmt.Sprintf("  已处理：%d / %d\n", m.completed, m.total))
	if m.cancelled {
		b.WriteString(hintStyle.Render("正在取消，当前文件完成后停止") + "\n")
	} else {
		b.WriteString(hintStyle.Render("Ctrl+C 取消剩余文件") + "\n")
	}

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) completeView() string {
	var b strings.Builder

	if m.succeeded == m.total {
		b.WriteString(successTitleStyle.Render("✅ 处理完成！") + "\n\n")
	} else {
		b.WriteString(warningTitleStyle.Render("⚠️  部分文件未能处理") + "\n\n")
	}

	b.WriteString(statsBoxStyle.Render(m.renderStats()) + "\n\n")

	if events := m.events.Events(); len(events) > 0 {
		b.WriteString(labelStyle.Render("通知：") + "\n")
		for _, e := range events {
			b.WriteString(renderEvent(e, m.width-8) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", 60)) + "\n")
	b.WriteString(hintStyle.Render("按 Enter 退出") + "\n")

	return lipgloss.NewStyle().
		Padding(2).
		Render(b.String())
}

func (m *model) renderStats() string {
	var b strings.Builder
	b.WriteString("📊 统计：\n\n")
	b.WriteString(fmt.Sprintf("  • 选中文件：  %d 个\n", m.total))
	b.WriteString(fmt.Sprintf("  • 成功：      %d 个\n", m.succeeded))
	b.WriteString(fmt.Sprintf("  • 失败：      %d 个\n", m.completed-m.succeeded))
	if skipped := m.total - m.completed; skipped > 0 {
		b.WriteString(fmt.Sprintf("  • 未执行：    %d 个\n", skipped))
	}
	if m.dryRun {
		b.WriteString("\n  预览模式，没有移动任何文件\n")
	}
	return b.String()
}

// renderEvent 按 width 折行，续行与标题后的正文对齐
func renderEvent(e notify.Event, width int) string {
	style := infoStyle
	switch e.Severity {
	case notify.Warning:
		style = warningStyle
	case notify.Error:
		style = errorStyle
	}

	msg := strings.TrimRight(e.Message, "\n")
	if width > 20 {
		msg = wrap.String(msg, width)
	}
	msg = strings.ReplaceAll(msg, "\n", "\n    ")
	return style.Render("  ["+e.Title+"]") + "\n    " + msg
}
