package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
	pkgprogress "github.com/moyu-x/file-organizer/pkg/progress"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case StateSelect:
			return m.updateSelectPhase(msg)
		case StateExecuting:
			if msg.String() == "ctrl+c" {
				// 已开始的项会完成，剩余的项不再执行
				logger.Get().Warn().Msg("用户取消执行")
				m.cancelled = true
				m.cancel()
			}
			return m, nil
		case StateComplete:
			switch msg.String() {
			case "enter", "q", "esc", "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.handleResize(msg)

	case progressMsg:
		m.completed = msg.Completed
		ev := pkgprogress.Event(msg)
		cmds = append(cmds, m.progress.SetPercent(ev.Percent()))
		cmds = append(cmds, m.waitCmd)
		return m, tea.Batch(cmds...)

	case executeDoneMsg:
		m.state = StateComplete
		m.succeeded = msg.succeeded
		logger.Get().Info().Msgf("执行完成: 成功 %d/%d", m.succeeded, m.total)
		return m, nil

	case spinner.TickMsg:
		if m.state == StateExecuting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state == StateSelect {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.state == StateExecuting {
		model, cmd := m.progress.Update(msg)
		m.progress = model.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) updateSelectPhase(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.cancelled = true
		return m, tea.Quit

	case " ":
		return m, m.toggle(m.list.Index())

	case "a":
		return m, m.toggleAll()

	case "enter":
		moves := m.selected()
		if len(moves) == 0 {
			return m, nil
		}
		return m, m.startExecute(moves)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) toggle(index int) tea.Cmd {
	if index < 0 || index >= len(m.items) {
		return nil
	}
	m.items[index].selected = !m.items[index].selected
	return m.list.SetItem(index, m.items[index])
}

// toggleAll 全部已勾选时取消全部，否则全部勾选
func (m *model) toggleAll() tea.Cmd {
	all := true
	for _, it := range m.items {
		if !it.selected {
			all = false
			break
		}
	}

	var cmds []tea.Cmd
	for i := range m.items {
		m.items[i].selected = !all
		cmds = append(cmds, m.list.SetItem(i, m.items[i]))
	}
	return tea.Batch(cmds...)
}

func (m *model) startExecute(moves []internal.Proposal) tea.Cmd {
	m.state = StateExecuting
	m.total = len(moves)
	logger.Get().Info().Msgf("用户选择了 %d 个文件", m.total)

	stream := pkgprogress.NewStream(16)
	done := make(chan int, 1)

	ctx, exec, dryRun := m.ctx, m.exec, m.dryRun
	go func() {
		// 全屏界面运行时控制台日志已关闭，进度仍写入日志文件
		onProgress := pkgprogress.Chain(stream.Func(), pkgprogress.NewLogReporter(50, "整理进度").Func())
		n := exec.Execute(ctx, moves, onProgress, dryRun)
		stream.Close()
		done <- n
	}()

	m.waitCmd = waitForProgress(stream, done)
	return tea.Batch(m.spinner.Tick, m.waitCmd)
}

// waitForProgress 读取下一条进度；通道关闭后返回执行结果
func waitForProgress(stream *pkgprogress.Stream, done <-chan int) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-stream.Events()
		if !ok {
			return executeDoneMsg{succeeded: <-done}
		}
		return progressMsg(ev)
	}
}

func (m *model) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.list.SetSize(msg.Width-4, msg.Height-6)
	m.progress.Width = msg.Width - 10
}
