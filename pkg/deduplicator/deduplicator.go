package deduplicator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/notify"
)

// Hasher 计算文件内容摘要
type Hasher interface {
	Hash(path string) (string, error)
}

// Group 一组内容相同的文件
type Group struct {
	Digest string
	Paths  []string
}

// Deduplicator 按内容摘要对文件分组，只保留两个及以上成员的组
type Deduplicator struct {
	hasher   Hasher
	notifier notify.Notifier
}

func NewDeduplicator(hasher Hasher, notifier notify.Notifier) *Deduplicator {
	return &Deduplicator{hasher: hasher, notifier: notify.OrDiscard(notifier)}
}

// FindDuplicates 返回 摘要 -> 文件列表；无法计算哈希的文件发出一条警告并被排除
func (d *Deduplicator) FindDuplicates(paths []string) map[string][]string {
	hashes := make(map[string][]string)

	for _, path := range paths {
		digest, err := d.hasher.Hash(path)
		if err != nil {
			logger.Get().Warn().Err(err).Msgf("计算哈希失败: %s", path)
			d.notifier.Notify(notify.Event{
				Severity: notify.Warning,
				Title:    "哈希计算失败",
				Message:  fmt.Sprintf("无法检查 %s 是否重复: %v", filepath.Base(path), err),
				Path:     path,
			})
			continue
		}
		hashes[digest] = append(hashes[digest], path)
	}

	for digest, group := range hashes {
		if len(group) < 2 {
			delete(hashes, digest)
		}
	}

	logger.Get().Debug().Msgf("重复检测完成，共 %d 个文件，%d 组重复", len(paths), len(hashes))
	return hashes
}

// Groups 按首个成员排序，便于稳定地展示
func Groups(duplicates map[string][]string) []Group {
	groups := make([]Group, 0, len(duplicates))
	for digest, paths := range duplicates {
		groups = append(groups, Group{Digest: digest, Paths: paths})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Paths[0] < groups[j].Paths[0]
	})
	return groups
}

// FormatGroups 以相对 root 的路径列出每组重复文件
func FormatGroups(root string, groups []Group) string {
	var b strings.Builder
	b.WriteString("发现重复文件:\n\n")
	for _, g := range groups {
		b.WriteString("以下文件内容相同:\n")
		for _, p := range g.Paths {
			rel, err := filepath.Rel(root, p)
			if err != nil {
				rel = p
			}
			b.WriteString("  - " + rel + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
