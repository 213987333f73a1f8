package cmd

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/notify"
)

func init() {
	color.NoColor = true
}

func TestPrintProposals(t *testing.T) {
	var buf bytes.Buffer
	printProposals(&buf, "/root", []internal.Proposal{
		{Source: "/root/b.txt", Destination: "/root/Documents/b.txt"},
		{Source: "/root/sub/a.jpg", Destination: "/root/Images/a.jpg"},
	})

	out := buf.String()
	assert.Contains(t, out, "/root: 2 个文件待整理")
	assert.Contains(t, out, "Documents (1)")
	assert.Contains(t, out, "  sub/a.jpg → Images/")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Documents")), bytes.Index(buf.Bytes(), []byte("Images")))
}

func TestPrintProposals_Empty(t *testing.T) {
	var buf bytes.Buffer
	printProposals(&buf, "/root", nil)
	assert.Contains(t, buf.String(), "所有文件都已在正确的分类目录中")
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, internal.ProcessStats{Total: 3, Succeeded: 2, Failed: 1})
	assert.Equal(t, "整理完成: 2/3 成功，1 个失败\n", buf.String())

	buf.Reset()
	printStats(&buf, internal.ProcessStats{Total: 1, Succeeded: 1, DryRun: true})
	assert.Equal(t, "预览完成: 1/1 成功\n", buf.String())
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	consoleNotifier(&buf).Notify(notify.Event{Severity: notify.Warning, Title: "权限错误", Message: "没有权限"})
	assert.Equal(t, "[权限错误] 没有权限\n", buf.String())
}
