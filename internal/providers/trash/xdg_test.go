//go:build !windows

package trash

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

func newTestTrash(t *testing.T) (*XDG, paths.Path) {
	t.Helper()
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	x, err := NewXDG(filepath.Join(base, "Trash"), nil)
	require.NoError(t, err)
	x.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local) }

	work := filepath.Join(base, "work")
	require.NoError(t, os.Mkdir(work, 0o755))
	return x, paths.FromOS(work)
}

func TestPut(t *testing.T) {
	x, work := newTestTrash(t)
	item := work.Join("my file.txt")
	require.NoError(t, os.WriteFile(item.OS(), []byte("x"), 0o644))

	require.NoError(t, x.Put(item))

	_, err := os.Lstat(item.OS())
	assert.True(t, os.IsNotExist(err), "item moved out of place")

	data, err := os.ReadFile(filepath.Join(x.Root(), "files", "my file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	info, err := os.ReadFile(filepath.Join(x.Root(), "info", "my file.txt.trashinfo"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "[Trash Info]\n")
	assert.Contains(t, string(info), "Path="+escapePath(item)+"\n")
	assert.Contains(t, string(info), "my%20file.txt")
	assert.Contains(t, string(info), "DeletionDate=2024-05-06T07:08:09\n")
}

func TestPutNameCollision(t *testing.T) {
	x, work := newTestTrash(t)
	for i := 0; i < 3; i++ {
		item := work.Join("a.txt")
		require.NoError(t, os.WriteFile(item.OS(), []byte{byte('0' + i)}, 0o644))
		require.NoError(t, x.Put(item))
	}

	items, err := x.List()
	require.NoError(t, err)
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
		assert.Equal(t, work.Join("a.txt"), it.OriginalPath)
	}
	assert.ElementsMatch(t, []string{"a.txt", "a.2.txt", "a.3.txt"}, names)
}

func TestPutDirectory(t *testing.T) {
	x, work := newTestTrash(t)
	dir := work.Join("D")
	require.NoError(t, os.MkdirAll(dir.Join("sub").OS(), 0o755))

	require.NoError(t, x.Put(dir))
	_, err := os.Stat(filepath.Join(x.Root(), "files", "D", "sub"))
	assert.NoError(t, err)
}

func TestPutErrors(t *testing.T) {
	x, work := newTestTrash(t)

	err := x.Put(work.Join("missing"))
	assert.ErrorIs(t, err, types.ErrNotFound)

	items, err := x.List()
	require.NoError(t, err)
	assert.Empty(t, items, "no info file left behind")

	err = x.Put(paths.FromOS(x.Root()))
	assert.ErrorIs(t, err, types.ErrInvalidPath)
}

func TestListEmpty(t *testing.T) {
	x, _ := newTestTrash(t)
	items, err := x.List()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDefaultRoot(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	root, err := DefaultRoot()
	require.NoError(t, err)
	assert.Equal(t, "/data/Trash", root)
}
