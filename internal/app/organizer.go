// Package app 将核心组件组装成展示层使用的窄接口。
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/config"
	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/classifier"
	"github.com/moyu-x/file-organizer/pkg/deduplicator"
	"github.com/moyu-x/file-organizer/pkg/hasher"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/mover"
	"github.com/moyu-x/file-organizer/pkg/notify"
	"github.com/moyu-x/file-organizer/pkg/oplog"
	"github.com/moyu-x/file-organizer/pkg/progress"
	"github.com/moyu-x/file-organizer/pkg/scanner"
	"github.com/moyu-x/file-organizer/pkg/undo"
)

type Options struct {
	// Fs 为空时使用真实文件系统
	Fs     afero.Fs
	Config *config.Config
	// Store 为空时操作日志只保存在内存中
	Store    oplog.Store
	Notifier notify.Notifier
}

// Organizer 组装扫描、执行、撤销，三者共用同一个文件系统、操作日志和通知通道
type Organizer struct {
	categories []string
	scanner    *scanner.Scanner
	executor   *mover.Executor
	undo       *undo.Manager
}

func New(opts Options) (*Organizer, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	notifier := notify.OrDiscard(opts.Notifier)

	cls, err := cfg.Classifier()
	if err != nil {
		return nil, err
	}
	alg, err := hasher.ParseAlgorithm(cfg.Hasher.Algorithm)
	if err != nil {
		return nil, err
	}

	log := oplog.New()
	if opts.Store != nil {
		log = oplog.NewWithStore(opts.Store)
	}

	scanOpts := scanner.Options{
		IncludeHidden:    cfg.Scanner.IncludeHidden,
		DetectDuplicates: cfg.Scanner.DetectDuplicates,
	}
	if cfg.Sniff.Enabled {
		scanOpts.Sniffer = classifier.NewSniffer(fs, cfg.Sniff.Categories)
	}

	dedup := deduplicator.NewDeduplicator(hasher.New(fs, alg), notifier)

	logger.Get().Debug().Msgf("哈希算法: %s，内容识别: %v", alg, cfg.Sniff.Enabled)

	categories := cls.Categories()
	if cfg.Sniff.Enabled {
		categories = appendMissing(categories, cfg.Sniff.Categories)
	}

	return &Organizer{
		categories: categories,
		scanner:    scanner.New(fs, cls, dedup, notifier, scanOpts),
		executor:   mover.NewExecutor(fs, log, notifier),
		undo:       undo.NewManager(fs, log, notifier),
	}, nil
}

func (o *Organizer) Scan(root string) ([]internal.Proposal, error) {
	return o.scanner.Scan(root)
}

// Execute 执行调用方选中的移动，返回成功数量
func (o *Organizer) Execute(ctx context.Context, moves []internal.Proposal, onProgress progress.Func, dryRun bool) int {
	return o.executor.Execute(ctx, moves, onProgress, dryRun)
}

func (o *Organizer) UndoLast() (undo.Report, error) {
	return o.undo.UndoLast()
}

// Categories 返回扫描可能产生的全部分类
func (o *Organizer) Categories() []string {
	return o.categories
}

// CheckCategories 拒绝不会出现在任何提案中的分类名
func (o *Organizer) CheckCategories(categories []string) error {
	for _, c := range categories {
		if !slices.Contains(o.categories, c) {
			return fmt.Errorf("未知的分类 %q，可用分类: %s", c, strings.Join(o.categories, ", "))
		}
	}
	return nil
}

func appendMissing(categories []string, sniffed map[string]string) []string {
	extra := make([]string, 0, len(sniffed))
	for _, c := range sniffed {
		if c != "" && !slices.Contains(categories, c) && !slices.Contains(extra, c) {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return append(categories, extra...)
}

// Organize 扫描 root 并执行其中属于 categories 的移动，categories 为空表示全部
func (o *Organizer) Organize(ctx context.Context, root string, categories []string, onProgress progress.Func, dryRun bool) (internal.ProcessStats, error) {
	if err := o.CheckCategories(categories); err != nil {
		return internal.ProcessStats{DryRun: dryRun}, err
	}

	proposals, err := o.Scan(root)
	if err != nil {
		return internal.ProcessStats{DryRun: dryRun}, err
	}

	selected := FilterByCategory(root, proposals, categories)
	succeeded := o.Execute(ctx, selected, onProgress, dryRun)

	return internal.ProcessStats{
		Total:     len(selected),
		Succeeded: succeeded,
		Failed:    len(selected) - succeeded,
		DryRun:    dryRun,
	}, nil
}

// Category 返回提案目标所在的分类目录名
func Category(p internal.Proposal) string {
	return filepath.Base(filepath.Dir(p.Destination))
}

// FilterByCategory 保留目标分类在 categories 中的提案，保持原有顺序
func FilterByCategory(root string, proposals []internal.Proposal, categories []string) []internal.Proposal {
	if len(categories) == 0 {
		return proposals
	}
	want := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		want[c] = struct{}{}
	}

	var out []internal.Proposal
	for _, p := range proposals {
		if _, ok := want[Category(p)]; ok {
			out = append(out, p)
		}
	}
	logger.Get().Debug().Msgf("%s: 按分类筛选后保留 %d/%d 个文件", root, len(out), len(proposals))
	return out
}
