package fsops

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, KindPermission, Classify(fs.ErrPermission))
	assert.Equal(t, KindNotFound, Classify(&fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}))
	assert.Equal(t, KindExists, Classify(fs.ErrExist))
	assert.Equal(t, KindOther, Classify(errors.New("boom")))
	assert.Equal(t, KindOther, Classify(nil))

	wrapped := Wrap("rename", "/a", fs.ErrPermission)
	assert.Equal(t, KindPermission, Classify(wrapped))
	assert.True(t, errors.Is(wrapped, fs.ErrPermission))
}

func TestKind_Recoverable(t *testing.T) {
	assert.True(t, KindPermission.Recoverable())
	assert.True(t, KindNotFound.Recoverable())
	assert.False(t, KindExists.Recoverable())
	assert.False(t, KindOther.Recoverable())
}

func TestMove(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/root/a.txt", []byte("hello"), 0644))
	require.NoError(t, EnsureParent(fsys, "/root/Documents/a.txt"))

	require.NoError(t, Move(fsys, "/root/a.txt", "/root/Documents/a.txt"))

	exists, _ := afero.Exists(fsys, "/root/a.txt")
	assert.False(t, exists)
	data, err := afero.ReadFile(fsys, "/root/Documents/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestMove_MissingSource(t *testing.T) {
	fsys := afero.NewMemMapFs()

	err := Move(fsys, "/root/missing.txt", "/root/Documents/missing.txt")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, Classify(err))
}

func TestMove_RefusesOverwrite(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/root/a.txt", []byte("new"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/root/Documents/a.txt", []byte("old"), 0644))

	err := Move(fsys, "/root/a.txt", "/root/Documents/a.txt")
	require.Error(t, err)
	assert.Equal(t, KindExists, Classify(err))

	data, _ := afero.ReadFile(fsys, "/root/Documents/a.txt")
	assert.Equal(t, "old", string(data), "existing destination must be left intact")
}

func TestMove_ReadOnly(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/root/a.txt", []byte("x"), 0644))
	fsys := afero.NewReadOnlyFs(base)

	err := Move(fsys, "/root/a.txt", "/root/b.txt")
	require.Error(t, err)
	assert.Equal(t, KindPermission, Classify(err))
}

func TestEnsureParent_ReadOnly(t *testing.T) {
	fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())

	err := EnsureParent(fsys, "/root/Images/a.png")
	require.Error(t, err)
	assert.Equal(t, KindPermission, Classify(err))
}

func TestCopyThenRemove(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/a.bin", []byte("payload"), 0600))
	require.NoError(t, fsys.MkdirAll("/dst", 0755))

	require.NoError(t, copyThenRemove(fsys, "/src/a.bin", "/dst/a.bin"))

	data, err := afero.ReadFile(fsys, "/dst/a.bin")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	exists, _ := afero.Exists(fsys, "/src/a.bin")
	assert.False(t, exists)

	entries, err := afero.ReadDir(fsys, "/dst")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}
