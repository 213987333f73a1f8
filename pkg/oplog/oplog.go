// Package oplog 记录每一次移动尝试，供撤销使用。
//
// 每次执行都会开启一个新的批次（单调递增的批次号）。撤销只针对最近一次
// 非预览批次；撤销完成后该批次被标记为已撤销并删除其条目，因此连续两次撤销
// 时第二次不会回退到更早的批次。
package oplog

import (
	"fmt"
	"time"
)

// Entry 一次移动尝试。MovedTo/MovedFrom 记录正向操作的目标与来源
type Entry struct {
	BatchID   int64
	Seq       int
	MovedTo   string
	MovedFrom string
	Succeeded bool
	Error     string
	CreatedAt time.Time
}

type Batch struct {
	ID        int64
	DryRun    bool
	Undone    bool
	CreatedAt time.Time
}

// Store 操作日志的存储后端
type Store interface {
	CreateBatch(dryRun bool) (Batch, error)
	AppendEntry(entry Entry) error
	// LastLiveBatch 返回最近创建的非预览批次（包括已撤销的）
	LastLiveBatch() (Batch, bool, error)
	Entries(batchID int64) ([]Entry, error)
	// MarkUndone 标记批次已撤销并删除其条目
	MarkUndone(batchID int64) error
}

// Log 操作日志，由执行器和撤销管理器共享
type Log struct {
	store Store
}

// New 创建仅存在于内存中的日志
func New() *Log {
	return &Log{store: NewMemoryStore()}
}

func NewWithStore(store Store) *Log {
	return &Log{store: store}
}

// Begin 开启一个新批次
func (l *Log) Begin(dryRun bool) (*BatchWriter, error) {
	batch, err := l.store.CreateBatch(dryRun)
	if err != nil {
		return nil, fmt.Errorf("创建批次: %w", err)
	}
	return &BatchWriter{store: l.store, batch: batch}, nil
}

// LastBatch 返回最近一次非预览批次及其条目；没有可撤销的批次时 ok 为 false
func (l *Log) LastBatch() (Batch, []Entry, bool, error) {
	batch, ok, err := l.store.LastLiveBatch()
	if err != nil {
		return Batch{}, nil, false, fmt.Errorf("查询最近批次: %w", err)
	}
	if !ok || batch.Undone {
		return batch, nil, false, nil
	}
	entries, err := l.store.Entries(batch.ID)
	if err != nil {
		return batch, nil, false, fmt.Errorf("读取批次 %d: %w", batch.ID, err)
	}
	return batch, entries, true, nil
}

// Complete 撤销完成后调用，移除该批次的条目
func (l *Log) Complete(batchID int64) error {
	if err := l.store.MarkUndone(batchID); err != nil {
		return fmt.Errorf("标记批次 %d 已撤销: %w", batchID, err)
	}
	return nil
}

// BatchWriter 向单个批次追加条目
type BatchWriter struct {
	store Store
	batch Batch
	seq   int
}

func (w *BatchWriter) Batch() Batch {
	return w.batch
}

// Record 追加一条记录，cause 为失败原因（成功时为 nil）
func (w *BatchWriter) Record(movedTo, movedFrom string, succeeded bool, cause error) error {
	entry := Entry{
		BatchID:   w.batch.ID,
		Seq:       w.seq,
		MovedTo:   movedTo,
		MovedFrom: movedFrom,
		Succeeded: succeeded,
		CreatedAt: time.Now(),
	}
	if cause != nil {
		entry.Error = cause.Error()
	}
	w.seq++
	return w.store.AppendEntry(entry)
}
