// Package fsops 提供带错误分类的文件移动原语，执行器与撤销共用。
package fsops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/pkg/logger"
)

// Kind 文件系统错误的类别
type Kind int

const (
	KindOther Kind = iota
	KindPermission
	KindNotFound
	KindExists
)

func (k Kind) String() string {
	switch k {
	case KindPermission:
		return "permission denied"
	case KindNotFound:
		return "not found"
	case KindExists:
		return "already exists"
	default:
		return "other"
	}
}

// Recoverable 权限不足与文件不存在属于可恢复错误，其余按严重错误处理
func (k Kind) Recoverable() bool {
	return k == KindPermission || k == KindNotFound
}

// Error 带类别的文件系统错误
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var errDestinationExists = errors.New("目标文件已存在")

// Classify 将任意错误归类
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	switch {
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrExist):
		return KindExists
	}
	return KindOther
}

// Wrap 包装错误并附上类别，nil 保持为 nil
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Op: op, Path: path, Kind: Classify(err), Err: err}
}

// EnsureParent 确保 path 的父目录存在
func EnsureParent(fsys afero.Fs, path string) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return Wrap("mkdir", dir, err)
	}
	return nil
}

// Move 将 src 移动到 dst，不会覆盖已存在的 dst
// 跨设备时回退为复制后删除
func Move(fsys afero.Fs, src, dst string) error {
	if _, err := fsys.Stat(src); err != nil {
		return Wrap("stat", src, err)
	}

	exists, err := afero.Exists(fsys, dst)
	if err != nil {
		return Wrap("stat", dst, err)
	}
	if exists {
		return &Error{Op: "move", Path: dst, Kind: KindExists, Err: errDestinationExists}
	}

	if err := fsys.Rename(src, dst); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return Wrap("rename", src, err)
		}
		logger.Get().Debug().
			Err(err).
			Str("source", src).
			Str("destination", dst).
			Msg("直接重命名失败，尝试复制后删除")
		return copyThenRemove(fsys, src, dst)
	}
	return nil
}

func copyThenRemove(fsys afero.Fs, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return Wrap("stat", src, err)
	}

	in, err := fsys.Open(src)
	if err != nil {
		return Wrap("open", src, err)
	}
	defer in.Close()

	// 先写入同目录下的临时文件，完成后再改名
	tmp := filepath.Join(filepath.Dir(dst), "."+uuid.NewString()+".part")
	out, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return Wrap("create", tmp, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = fsys.Remove(tmp)
		return Wrap("copy", src, err)
	}
	if err := out.Close(); err != nil {
		_ = fsys.Remove(tmp)
		return Wrap("close", tmp, err)
	}

	if err := fsys.Rename(tmp, dst); err != nil {
		_ = fsys.Remove(tmp)
		return Wrap("rename", tmp, err)
	}

	if err := fsys.Remove(src); err != nil {
		return Wrap("remove", src, err)
	}
	return nil
}
