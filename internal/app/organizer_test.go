package app

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyu-x/file-organizer/config"
	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/internal/testutil"
	"github.com/moyu-x/file-organizer/pkg/notify"
	"github.com/moyu-x/file-organizer/pkg/undo"
)

func newOrganizer(t *testing.T, fsys afero.Fs, rec *notify.Recorder) *Organizer {
	t.Helper()
	org, err := New(Options{Fs: fsys, Notifier: rec})
	require.NoError(t, err)
	return org
}

func TestOrganizer_ScanExecuteUndo(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, testutil.WriteFiles(fsys, map[string]string{
		"/root/a.jpg":             "a",
		"/root/sub/b.pdf":         "b",
		"/root/report 2024-01-15": "c",
		"/root/x.unknown":         "d",
	}))

	rec := &notify.Recorder{}
	org := newOrganizer(t, fsys, rec)

	proposals, err := org.Scan("/root")
	require.NoError(t, err)
	require.Len(t, proposals, 4)

	var progressed int
	n := org.Execute(context.Background(), proposals, func(completed, total int) { progressed = completed }, false)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, progressed)

	for _, p := range proposals {
		ok, err := afero.Exists(fsys, p.Destination)
		require.NoError(t, err)
		assert.True(t, ok, p.Destination)
	}

	again, err := org.Scan("/root")
	require.NoError(t, err)
	assert.Empty(t, again)

	report, err := org.UndoLast()
	require.NoError(t, err)
	assert.Equal(t, undo.Success, report.Status)
	assert.Equal(t, 4, report.Reverted)

	ok, err := afero.Exists(fsys, "/root/sub/b.pdf")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, rec.Count(notify.Error))
}

func TestOrganizer_Organize_FiltersCategories(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, testutil.WriteFiles(fsys, map[string]string{
		"/root/a.jpg": "a",
		"/root/b.mp3": "b",
		"/root/c.txt": "c",
	}))

	org := newOrganizer(t, fsys, nil)
	stats, err := org.Organize(context.Background(), "/root", []string{"Images", "Audio"}, nil, false)
	require.NoError(t, err)

	assert.Equal(t, internal.ProcessStats{Total: 2, Succeeded: 2}, stats)
	assert.True(t, stats.AllSucceeded())

	ok, _ := afero.Exists(fsys, "/root/c.txt")
	assert.True(t, ok, "未选中的分类不应移动")
}

func TestOrganizer_Organize_DryRun(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, testutil.WriteFiles(fsys, map[string]string{"/root/a.jpg": "a"}))

	org := newOrganizer(t, fsys, nil)
	stats, err := org.Organize(context.Background(), "/root", nil, nil, true)
	require.NoError(t, err)
	assert.Equal(t, internal.ProcessStats{Total: 1, Succeeded: 1, DryRun: true}, stats)

	ok, _ := afero.Exists(fsys, "/root/a.jpg")
	assert.True(t, ok)

	report, err := org.UndoLast()
	require.NoError(t, err)
	assert.Equal(t, undo.NothingToUndo, report.Status)
}

func TestOrganizer_Organize_ScanError(t *testing.T) {
	rec := &notify.Recorder{}
	org := newOrganizer(t, afero.NewMemMapFs(), rec)

	_, err := org.Organize(context.Background(), "/missing", nil, nil, false)
	require.Error(t, err)
	assert.Equal(t, 1, rec.Count(notify.Error))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.PatternRules[0].Patterns = []string{"(unclosed"}

	_, err := New(Options{Fs: afero.NewMemMapFs(), Config: cfg})
	assert.Error(t, err)
}

func TestFilterByCategory(t *testing.T) {
	proposals := []internal.Proposal{
		{Source: "/r/a.jpg", Destination: "/r/Images/a.jpg"},
		{Source: "/r/b.txt", Destination: "/r/Documents/b.txt"},
		{Source: "/r/c.png", Destination: "/r/Images/c.png"},
	}

	assert.Equal(t, proposals, FilterByCategory("/r", proposals, nil))
	assert.Equal(t, []internal.Proposal{proposals[0], proposals[2]}, FilterByCategory("/r", proposals, []string{"Images"}))
	assert.Empty(t, FilterByCategory("/r", proposals, []string{"Audio"}))
}

func TestOrganizer_CheckCategories(t *testing.T) {
	org := newOrganizer(t, afero.NewMemMapFs(), nil)

	assert.Equal(t, []string{"Images", "Documents", "Audio", "Others"}, org.Categories())
	assert.NoError(t, org.CheckCategories([]string{"Images", "Others"}))
	assert.Error(t, org.CheckCategories([]string{"Imgs"}))

	_, err := org.Organize(context.Background(), "/root", []string{"Imgs"}, nil, false)
	assert.Error(t, err)
}

func TestOrganizer_CategoriesIncludeSniffed(t *testing.T) {
	cfg := config.Default()
	cfg.Sniff.Enabled = true
	cfg.Sniff.Categories = map[string]string{"video": "Videos", "image": "Images"}

	org, err := New(Options{Fs: afero.NewMemMapFs(), Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, []string{"Images", "Documents", "Audio", "Others", "Videos"}, org.Categories())
}

func TestOrganizer_OrganizeTwiceKeepsUndo(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, testutil.WriteFiles(fsys, map[string]string{"/root/a.jpg": "a"}))

	org := newOrganizer(t, fsys, nil)
	_, err := org.Organize(context.Background(), "/root", nil, nil, false)
	require.NoError(t, err)

	stats, err := org.Organize(context.Background(), "/root", nil, nil, false)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)

	report, err := org.UndoLast()
	require.NoError(t, err)
	assert.Equal(t, undo.Success, report.Status)
}
