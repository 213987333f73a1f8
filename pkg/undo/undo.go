package undo

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal/fsops"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/notify"
	"github.com/moyu-x/file-organizer/pkg/oplog"
)

type Status int

const (
	NothingToUndo Status = iota
	Success
	PartialSuccess
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case PartialSuccess:
		return "partial"
	default:
		return "nothing-to-undo"
	}
}

// Report 撤销结果
type Report struct {
	Status   Status
	BatchID  int64
	Reverted int
	Failed   int
	Message  string
}

// Manager 撤销最近一次执行的移动
type Manager struct {
	fs       afero.Fs
	log      *oplog.Log
	notifier notify.Notifier
}

func NewManager(fs afero.Fs, log *oplog.Log, notifier notify.Notifier) *Manager {
	return &Manager{fs: fs, log: log, notifier: notify.OrDiscard(notifier)}
}

// UndoLast 按执行的逆序把最近一批成功移动的文件移回原处
// 单个文件失败只计数并警告，不影响其余文件
func (m *Manager) UndoLast() (Report, error) {
	batch, entries, ok, err := m.log.LastBatch()
	if err != nil {
		return Report{}, err
	}
	if !ok {
		return m.nothing(0, "没有可以撤销的操作"), nil
	}

	var moved []oplog.Entry
	for _, e := range entries {
		if e.Succeeded {
			moved = append(moved, e)
		}
	}

	if len(moved) == 0 {
		if err := m.log.Complete(batch.ID); err != nil {
			return Report{}, err
		}
		return m.nothing(batch.ID, "最近一批操作中没有成功的移动可以撤销"), nil
	}

	logger.Get().Info().Msgf("开始撤销批次 %d，共 %d 个文件", batch.ID, len(moved))

	report := Report{BatchID: batch.ID}
	for i := len(moved) - 1; i >= 0; i-- {
		e := moved[i]
		if err := m.revert(e); err != nil {
			report.Failed++
			m.reportFailure(e, err)
			continue
		}
		report.Reverted++
	}

	if err := m.log.Complete(batch.ID); err != nil {
		return report, err
	}

	if report.Failed == 0 {
		report.Status = Success
		report.Message = "已成功撤销上一次操作"
		m.notifier.Notify(notify.Event{Severity: notify.Info, Title: "撤销", Message: report.Message})
	} else {
		report.Status = PartialSuccess
		report.Message = fmt.Sprintf("已撤销上一次操作，但有 %d 个文件未能移回", report.Failed)
		m.notifier.Notify(notify.Event{Severity: notify.Warning, Title: "撤销完成", Message: report.Message})
	}

	logger.Get().Info().Msgf("批次 %d 撤销完成: 移回 %d，失败 %d", batch.ID, report.Reverted, report.Failed)
	return report, nil
}

func (m *Manager) nothing(batchID int64, msg string) Report {
	logger.Get().Info().Msg(msg)
	m.notifier.Notify(notify.Event{Severity: notify.Info, Title: "撤销", Message: msg})
	return Report{Status: NothingToUndo, BatchID: batchID, Message: msg}
}

func (m *Manager) revert(e oplog.Entry) error {
	if err := fsops.EnsureParent(m.fs, e.MovedFrom); err != nil {
		return err
	}
	if err := fsops.Move(m.fs, e.MovedTo, e.MovedFrom); err != nil {
		return err
	}
	logger.Get().Debug().Msgf("已移回: %s -> %s", e.MovedTo, e.MovedFrom)
	return nil
}

func (m *Manager) reportFailure(e oplog.Entry, err error) {
	name := filepath.Base(e.MovedTo)
	ev := notify.Event{Severity: notify.Warning, Path: e.MovedTo}

	kind := fsops.Classify(err)
	switch kind {
	case fsops.KindPermission:
		ev.Title = "权限错误"
		ev.Message = fmt.Sprintf("撤销失败: 没有权限移回 %s", name)
	case fsops.KindNotFound:
		ev.Title = "文件不存在"
		ev.Message = fmt.Sprintf("撤销失败: 找不到 %s（可能已被手动移动）", name)
	default:
		ev.Title = "撤销失败"
		ev.Message = fmt.Sprintf("撤销 %s 失败: %v", name, err)
	}

	// 撤销的失败一律以警告通知，日志中区分严重程度
	if kind.Recoverable() {
		logger.Get().Warn().Err(err).Msgf("撤销失败: %s", e.MovedTo)
	} else {
		logger.Get().Error().Err(err).Msgf("撤销失败: %s", e.MovedTo)
	}
	m.notifier.Notify(ev)
}
