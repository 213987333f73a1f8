package classifier

import (
	"io"

	"github.com/h2non/filetype"
	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

// DefaultSniffCategories 内容类型到分类的默认映射
func DefaultSniffCategories() map[string]string {
	return map[string]string{
		"image":    "Images",
		"audio":    "Audio",
		"document": "Documents",
	}
}

// Sniffer 通过文件头部识别内容类型，用于补充无法按文件名归类的文件
type Sniffer struct {
	fs         afero.Fs
	categories map[string]string
}

func NewSniffer(fs afero.Fs, categories map[string]string) *Sniffer {
	return &Sniffer{fs: fs, categories: categories}
}

// Sniff 返回内容类型对应的分类，无法识别或未配置时返回 false
func (s *Sniffer) Sniff(path string) (string, bool) {
	head, err := s.readHeader(path)
	if err != nil {
		logger.Get().Debug().Err(err).Msgf("读取文件头部失败: %s", path)
		return "", false
	}

	kind := contentKind(head)
	if kind == "" {
		return "", false
	}

	category, ok := s.categories[kind]
	if ok {
		logger.Get().Debug().Msgf("按内容识别: %s -> %s (%s)", path, category, kind)
	}
	return category, ok && category != ""
}

func contentKind(head []byte) string {
	switch {
	case filetype.IsDocument(head):
		return "document"
	case filetype.IsArchive(head):
		return "archive"
	case filetype.IsImage(head):
		return "image"
	case filetype.IsVideo(head):
		return "video"
	case filetype.IsAudio(head):
		return "audio"
	}
	return ""
}

func (s *Sniffer) readHeader(path string) ([]byte, error) {
	file, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	head := make([]byte, internal.FileHeaderSize)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return head[:n], nil
}
