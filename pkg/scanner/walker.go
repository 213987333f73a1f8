package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

type FileWalker struct {
	fs            afero.Fs
	IncludeHidden bool
}

func NewFileWalker(fs afero.Fs) *FileWalker {
	return &FileWalker{
		fs:            fs,
		IncludeHidden: true,
	}
}

// Walk 按字典序遍历 root 下的所有普通文件，遍历错误直接返回
func (w *FileWalker) Walk(root string, callback func(path string, info os.FileInfo) error) error {
	return afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if path != root && !w.IncludeHidden && strings.HasPrefix(filepath.Base(path), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return callback(path, info)
	})
}
