package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/notify"
	"github.com/moyu-x/file-organizer/pkg/progress"
)

// Executor 执行选中的移动，由 app.Organizer 实现
type Executor interface {
	Execute(ctx context.Context, moves []internal.Proposal, onProgress progress.Func, dryRun bool) int
}

type Config struct {
	Root      string
	Proposals []internal.Proposal
	DryRun    bool
	// Events 执行期间收到的通知，完成后展示
	Events *notify.Recorder
}

// Result 交互结束后的结果
type Result struct {
	Selected  int
	Succeeded int
	Cancelled bool
}

type teaModel struct {
	m *model
}

func (tm teaModel) Init() tea.Cmd {
	return tm.m.Init()
}

func (tm teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := tm.m.Update(msg)
	return tm, cmd
}

func (tm teaModel) View() string {
	return tm.m.View()
}

// Run 展示提案列表供用户勾选，确认后执行并显示进度
func Run(ctx context.Context, exec Executor, config *Config) (Result, error) {
	logger.Get().Info().Msg("启动 TUI 界面")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := initialModel(ctx, cancel, exec, config)
	p := tea.NewProgram(teaModel{m: m}, tea.WithAltScreen())

	_, err := p.Run()
	if err != nil {
		logger.Get().Error().Err(err).Msg("TUI 运行错误")
	} else {
		logger.Get().Info().Msg("TUI 正常退出")
	}

	return m.result(), err
}
