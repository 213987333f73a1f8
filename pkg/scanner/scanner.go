package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/internal/fsops"
	"github.com/moyu-x/file-organizer/pkg/classifier"
	"github.com/moyu-x/file-organizer/pkg/deduplicator"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/notify"
)

// ScanError 目录遍历失败
type ScanError struct {
	Root string
	Kind fsops.Kind
	Err  error
}

func (e *ScanError) Error() string {
	if e.Kind == fsops.KindPermission {
		return fmt.Sprintf("没有权限扫描 %s: %v", e.Root, e.Err)
	}
	return fmt.Sprintf("扫描 %s 失败: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

type Options struct {
	IncludeHidden    bool
	DetectDuplicates bool
	// Sniffer 非空时，对归入兜底分类的文件再按内容识别一次
	Sniffer *classifier.Sniffer
}

func DefaultOptions() Options {
	return Options{IncludeHidden: true, DetectDuplicates: true}
}

type Scanner struct {
	walker     *FileWalker
	classifier *classifier.Classifier
	dedup      *deduplicator.Deduplicator
	sniffer    *classifier.Sniffer
	notifier   notify.Notifier
	detectDups bool
}

func New(fs afero.Fs, cls *classifier.Classifier, dedup *deduplicator.Deduplicator, notifier notify.Notifier, opts Options) *Scanner {
	walker := NewFileWalker(fs)
	walker.IncludeHidden = opts.IncludeHidden
	return &Scanner{
		walker:     walker,
		classifier: cls,
		dedup:      dedup,
		sniffer:    opts.Sniffer,
		notifier:   notify.OrDiscard(notifier),
		detectDups: opts.DetectDuplicates && dedup != nil,
	}
}

// Scan 遍历 root，返回需要移动的文件列表
// 已经位于正确分类目录中的文件不会出现在结果中
func (s *Scanner) Scan(root string) ([]internal.Proposal, error) {
	root = filepath.Clean(root)
	logger.Get().Info().Msgf("开始扫描: %s", root)

	var files []string
	err := s.walker.Walk(root, func(path string, info os.FileInfo) error {
		files = append(files, path)
		return nil
	})
	if err != nil {
		scanErr := &ScanError{Root: root, Kind: fsops.Classify(err), Err: err}
		logger.Get().Error().Err(err).Msgf("扫描目录失败: %s", root)
		s.notifier.Notify(notify.Event{
			Severity: notify.Error,
			Title:    "扫描失败",
			Message:  scanErr.Error(),
			Path:     root,
		})
		return nil, scanErr
	}

	logger.Get().Info().Msgf("共找到 %d 个文件", len(files))

	if s.detectDups {
		s.reportDuplicates(root, files)
	}

	proposals := make([]internal.Proposal, 0, len(files))
	for _, path := range files {
		category := s.categorize(path)
		dest := filepath.Join(root, category, filepath.Base(path))
		if dest == path {
			continue
		}
		proposals = append(proposals, internal.Proposal{Source: path, Destination: dest})
	}

	logger.Get().Info().Msgf("扫描完成，%d 个文件需要移动", len(proposals))
	return proposals, nil
}

func (s *Scanner) categorize(path string) string {
	category := s.classifier.Classify(path)
	if category != s.classifier.Fallback() || s.sniffer == nil {
		return category
	}
	if sniffed, ok := s.sniffer.Sniff(path); ok {
		return sniffed
	}
	return category
}

func (s *Scanner) reportDuplicates(root string, files []string) {
	duplicates := s.dedup.FindDuplicates(files)
	if len(duplicates) == 0 {
		return
	}

	groups := deduplicator.Groups(duplicates)
	logger.Get().Warn().Msgf("发现 %d 组重复文件", len(groups))
	s.notifier.Notify(notify.Event{
		Severity: notify.Warning,
		Title:    "发现重复文件",
		Message:  deduplicator.FormatGroups(root, groups),
		Path:     root,
	})
}
