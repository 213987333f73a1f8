package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/fatih/color"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/internal/app"
	"github.com/moyu-x/file-organizer/pkg/notify"
)

var (
	headerColor   = color.New(color.FgMagenta, color.Bold)
	categoryColor = color.New(color.FgCyan, color.Bold)
	successColor  = color.New(color.FgGreen)
	warnColor     = color.New(color.FgYellow)
	errorColor    = color.New(color.FgRed, color.Bold)
	faintColor    = color.New(color.Faint)
)

// printProposals 按分类分组输出移动方案
func printProposals(w io.Writer, root string, proposals []internal.Proposal) {
	if len(proposals) == 0 {
		successColor.Fprintln(w, "所有文件都已在正确的分类目录中")
		return
	}

	groups := make(map[string][]internal.Proposal)
	for _, p := range proposals {
		c := app.Category(p)
		groups[c] = append(groups[c], p)
	}
	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	headerColor.Fprintf(w, "%s: %d 个文件待整理\n", root, len(proposals))
	for _, c := range categories {
		categoryColor.Fprintf(w, "\n%s (%d)\n", c, len(groups[c]))
		for _, p := range groups[c] {
			rel, err := filepath.Rel(root, p.Source)
			if err != nil {
				rel = p.Source
			}
			fmt.Fprintf(w, "  %s %s\n", rel, faintColor.Sprint("→ "+c+"/"))
		}
	}
}

func printStats(w io.Writer, stats internal.ProcessStats) {
	label := "整理完成"
	if stats.DryRun {
		label = "预览完成"
	}
	if stats.AllSucceeded() {
		successColor.Fprintf(w, "%s: %d/%d 成功\n", label, stats.Succeeded, stats.Total)
		return
	}
	warnColor.Fprintf(w, "%s: %d/%d 成功，%d 个失败\n", label, stats.Succeeded, stats.Total, stats.Failed)
}

// consoleNotifier 将通知以带颜色的形式写到 w
func consoleNotifier(w io.Writer) notify.Notifier {
	return notify.Func(func(e notify.Event) {
		c := successColor
		switch e.Severity {
		case notify.Warning:
			c = warnColor
		case notify.Error:
			c = errorColor
		}
		c.Fprintf(w, "[%s] ", e.Title)
		fmt.Fprintln(w, e.Message)
	})
}
