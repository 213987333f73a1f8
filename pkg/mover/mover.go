package mover

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/internal/fsops"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/notify"
	"github.com/moyu-x/file-organizer/pkg/oplog"
	"github.com/moyu-x/file-organizer/pkg/progress"
)

// Executor 按顺序执行一批移动，单个文件失败不会中断整批
type Executor struct {
	fs       afero.Fs
	log      *oplog.Log
	notifier notify.Notifier
}

func NewExecutor(fs afero.Fs, log *oplog.Log, notifier notify.Notifier) *Executor {
	return &Executor{fs: fs, log: log, notifier: notify.OrDiscard(notifier)}
}

// Execute 执行 moves 并返回成功数量。预览模式下不修改文件系统，
// 只检查源目录是否可读以及目标是否会被覆盖，通过检查的项同样计为成功。
// ctx 在每项之间检查，取消后剩余的项不再尝试。
// 日志无法写入时不移动任何文件，进度直接报告为完成。
func (e *Executor) Execute(ctx context.Context, moves []internal.Proposal, onProgress progress.Func, dryRun bool) int {
	total := len(moves)

	// 没有要尝试的项时不开启批次，否则空批次会遮住上一次可撤销的批次
	if total == 0 {
		logger.Get().Info().Msg("没有需要移动的文件")
		return 0
	}
	if err := ctx.Err(); err != nil {
		logger.Get().Warn().Err(err).Msg("执行前已取消")
		return 0
	}

	batch, err := e.log.Begin(dryRun)
	if err != nil {
		logger.Get().Error().Err(err).Msg("无法写入操作日志，取消本次移动")
		e.notifier.Notify(notify.Event{
			Severity: notify.Error,
			Title:    "操作日志错误",
			Message:  fmt.Sprintf("无法记录本次操作，未移动任何文件: %v", err),
		})
		if onProgress != nil {
			onProgress(total, total)
		}
		return 0
	}

	logger.Get().Info().Msgf("开始执行批次 %d，共 %d 个文件 (预览: %v)", batch.Batch().ID, total, dryRun)

	succeeded := 0
	for i, move := range moves {
		// 第一项之前已检查过，保证批次中至少有一次尝试
		if i > 0 {
			if err := ctx.Err(); err != nil {
				logger.Get().Warn().Err(err).Msgf("批次已取消，已处理 %d/%d", i, total)
				break
			}
		}

		var opErr error
		if dryRun {
			opErr = e.check(move)
		} else {
			opErr = e.move(move)
		}

		if opErr == nil {
			succeeded++
			if !dryRun {
				e.record(batch, move, true, nil)
			}
		} else {
			e.record(batch, move, false, opErr)
			e.reportFailure(move, opErr)
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	logger.Get().Info().Msgf("批次 %d 完成: 成功 %d/%d", batch.Batch().ID, succeeded, total)
	return succeeded
}

func (e *Executor) move(m internal.Proposal) error {
	if err := fsops.EnsureParent(e.fs, m.Destination); err != nil {
		return err
	}
	if err := fsops.Move(e.fs, m.Source, m.Destination); err != nil {
		return err
	}
	logger.Get().Debug().Msgf("已移动: %s -> %s", m.Source, m.Destination)
	return nil
}

func (e *Executor) check(m internal.Proposal) error {
	dir := filepath.Dir(m.Source)
	f, err := e.fs.Open(dir)
	if err != nil {
		return fsops.Wrap("open", dir, err)
	}
	f.Close()

	exists, err := afero.Exists(e.fs, m.Destination)
	if err == nil && exists {
		e.notifier.Notify(notify.Event{
			Severity: notify.Warning,
			Title:    "预览",
			Message:  fmt.Sprintf("文件将被覆盖: %s", m.Destination),
			Path:     m.Destination,
		})
	}
	return nil
}

func (e *Executor) record(batch *oplog.BatchWriter, m internal.Proposal, ok bool, cause error) {
	if err := batch.Record(m.Destination, m.Source, ok, cause); err != nil {
		logger.Get().Error().Err(err).Msgf("写入操作日志失败: %s", m.Source)
		e.notifier.Notify(notify.Event{
			Severity: notify.Error,
			Title:    "操作日志错误",
			Message:  fmt.Sprintf("%s 的移动未能记录，无法撤销: %v", filepath.Base(m.Source), err),
			Path:     m.Source,
		})
	}
}

func (e *Executor) reportFailure(m internal.Proposal, err error) {
	name := filepath.Base(m.Source)
	kind := fsops.Classify(err)

	// 可恢复的错误只跳过当前文件，其余按严重错误通知
	ev := notify.Event{Severity: notify.Error, Path: m.Source}
	if kind.Recoverable() {
		ev.Severity = notify.Warning
	}

	switch kind {
	case fsops.KindPermission:
		ev.Title = "权限错误"
		ev.Message = fmt.Sprintf("跳过文件: 没有权限移动 %s", name)
	case fsops.KindNotFound:
		ev.Title = "文件不存在"
		ev.Message = fmt.Sprintf("跳过文件: 找不到源文件 %s", name)
	default:
		ev.Title = "移动失败"
		ev.Message = fmt.Sprintf("移动 %s 失败: %v", name, err)
	}

	if kind.Recoverable() {
		logger.Get().Warn().Err(err).Msgf("移动失败: %s", m.Source)
	} else {
		logger.Get().Error().Err(err).Msgf("移动失败: %s", m.Source)
	}
	e.notifier.Notify(ev)
}
