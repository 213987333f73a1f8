package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/notify"
)

type State int

const (
	StateSelect State = iota
	StateExecuting
	StateComplete
)

type model struct {
	ctx    context.Context
	cancel context.CancelFunc
	exec   Executor

	state     State
	root      string
	dryRun    bool
	items     []proposalItem
	events    *notify.Recorder
	list      list.Model
	progress  progress.Model
	spinner   spinner.Model
	total     int
	completed int
	succeeded int
	cancelled bool
	width     int
	waitCmd   tea.Cmd
}

func initialModel(ctx context.Context, cancel context.CancelFunc, exec Executor, config *Config) *model {
	items := make([]proposalItem, len(config.Proposals))
	listItems := make([]list.Item, len(config.Proposals))
	for i, p := range config.Proposals {
		items[i] = proposalItem{proposal: p, root: config.Root, selected: true}
		listItems[i] = items[i]
	}

	l := list.New(listItems, list.NewDefaultDelegate(), 0, 20)
	l.Title = fmt.Sprintf("待整理文件 (%d)", len(items))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.PercentageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Width(4)

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	events := config.Events
	if events == nil {
		events = &notify.Recorder{}
	}

	return &model{
		ctx:      ctx,
		cancel:   cancel,
		exec:     exec,
		state:    StateSelect,
		root:     config.Root,
		dryRun:   config.DryRun,
		items:    items,
		events:   events,
		list:     l,
		progress: progressBar,
		spinner:  s,
		width:    80,
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

// selected 按原有顺序返回勾选的提案
func (m *model) selected() []internal.Proposal {
	var out []internal.Proposal
	for _, it := range m.items {
		if it.selected {
			out = append(out, it.proposal)
		}
	}
	return out
}

func (m *model) result() Result {
	return Result{
		Selected:  m.total,
		Succeeded: m.succeeded,
		Cancelled: m.cancelled,
	}
}

type proposalItem struct {
	proposal internal.Proposal
	root     string
	selected bool
}

func (p proposalItem) Title() string {
	mark := "[ ]"
	if p.selected {
		mark = "[x]"
	}
	return mark + " " + filepath.Base(p.proposal.Source)
}

func (p proposalItem) Description() string {
	from, err := filepath.Rel(p.root, p.proposal.Source)
	if err != nil {
		from = p.proposal.Source
	}
	return from + " → " + filepath.Base(filepath.Dir(p.proposal.Destination))
}

func (p proposalItem) FilterValue() string { return p.proposal.Source }
