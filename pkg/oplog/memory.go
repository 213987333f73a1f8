package oplog

import (
	"fmt"
	"sync"
	"time"
)

// MemoryStore 进程内的日志存储，生命周期与进程相同
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	batches []Batch
	entries []Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) CreateBatch(dryRun bool) (Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := Batch{ID: m.nextID, DryRun: dryRun, CreatedAt: time.Now()}
	m.nextID++
	m.batches = append(m.batches, b)
	return b, nil
}

func (m *MemoryStore) AppendEntry(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.find(entry.BatchID) < 0 {
		return fmt.Errorf("批次不存在: %d", entry.BatchID)
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryStore) LastLiveBatch() (Batch, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.batches) - 1; i >= 0; i-- {
		if !m.batches[i].DryRun {
			return m.batches[i], true, nil
		}
	}
	return Batch{}, false, nil
}

func (m *MemoryStore) Entries(batchID int64) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Entry
	for _, e := range m.entries {
		if e.BatchID == batchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryStore) MarkUndone(batchID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.find(batchID)
	if i < 0 {
		return fmt.Errorf("批次不存在: %d", batchID)
	}
	m.batches[i].Undone = true

	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.BatchID != batchID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

// Len 返回当前保留的条目数
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryStore) find(batchID int64) int {
	for i := range m.batches {
		if m.batches[i].ID == batchID {
			return i
		}
	}
	return -1
}
