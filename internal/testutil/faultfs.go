// Package testutil 提供测试中模拟文件系统故障的工具。
package testutil

import (
	"io/fs"
	"os"
	"sync"

	"github.com/spf13/afero"
)

// FaultFs 包装 afero.Fs，对指定路径的重命名返回错误，并记录所有成功的重命名
type FaultFs struct {
	afero.Fs

	mu      sync.Mutex
	fail    map[string]error
	Renames [][2]string
}

func NewFaultFs(base afero.Fs) *FaultFs {
	return &FaultFs{Fs: base, fail: make(map[string]error)}
}

// FailRename 让以 src 为源的重命名返回 err
func (f *FaultFs) FailRename(src string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[src] = err
}

// DenyRename 让以 src 为源的重命名返回权限错误
func (f *FaultFs) DenyRename(src string) {
	f.FailRename(src, fs.ErrPermission)
}

func (f *FaultFs) Rename(oldname, newname string) error {
	f.mu.Lock()
	err, ok := f.fail[oldname]
	f.mu.Unlock()
	if ok {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: err}
	}

	if err := f.Fs.Rename(oldname, newname); err != nil {
		return err
	}

	f.mu.Lock()
	f.Renames = append(f.Renames, [2]string{oldname, newname})
	f.mu.Unlock()
	return nil
}

// WriteFiles 创建文件及其父目录
func WriteFiles(fsys afero.Fs, files map[string]string) error {
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
