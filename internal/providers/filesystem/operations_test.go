package filesystem

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/filecore/internal/domain/clipboard"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

func TestPasteFileCopy(t *testing.T) {
	root := tempRoot(t)
	src := root.Join("src", "f.txt")
	dst := root.Join("dst")
	writeFile(t, src, "hello")
	mkdir(t, dst)

	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src.OS(), mtime, mtime))

	cb := clipboard.New()
	cb.Copy([]paths.Path{src})

	e := newTestEngine(t, Options{})
	tasks, err := e.Paste(context.Background(), cb, dst)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	assert.Equal(t, StatusCompleted, tasks[0].Status)
	assert.Equal(t, dst.Join("f.txt"), tasks[0].FinalPath)
	assert.Equal(t, "hello", readFile(t, dst.Join("f.txt")))
	assert.True(t, pathExists(src), "copy keeps the source")
	assert.Equal(t, 1, cb.Len(), "copy selection survives the paste")

	info, err := os.Stat(dst.Join("f.txt").OS())
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime), "mtime preserved")
}

func TestPasteFileCollisionRoundTrip(t *testing.T) {
	root := tempRoot(t)
	src := root.Join("src", "f.txt")
	dst := root.Join("dst")
	writeFile(t, src, "new")
	writeFile(t, dst.Join("f.txt"), "old")

	cb := clipboard.New()
	cb.Copy([]paths.Path{src})
	e := newTestEngine(t, Options{})

	tasks, err := e.Paste(context.Background(), cb, dst)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, tasks[0].Status)
	assert.Equal(t, dst.Join("f - copy.txt"), tasks[0].FinalPath)
	assert.Equal(t, "old", readFile(t, dst.Join("f.txt")))

	tasks, err = e.Paste(context.Background(), cb, dst)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, tasks[0].Status)
	assert.ErrorIs(t, tasks[0].Err, types.ErrAlreadyExists)
	assert.False(t, pathExists(dst.Join("f - copy - copy.txt")))
}

func TestPasteDirectoryCollision(t *testing.T) {
	root := tempRoot(t)
	src := root.Join("src", "D")
	dst := root.Join("dst")
	writeFile(t, src.Join("inner", "a.txt"), "a")
	mkdir(t, dst.Join("D"))

	cb := clipboard.New()
	cb.Copy([]paths.Path{src})
	e := newTestEngine(t, Options{})

	start := time.Now().UnixMilli()
	tasks, err := e.Paste(context.Background(), cb, dst)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, tasks[0].Status, tasks[0].Reason)

	final := tasks[0].FinalPath
	prefix := "D - copy at "
	require.True(t, strings.HasPrefix(final.Base(), prefix), final.Base())
	stamp, err := strconv.ParseInt(strings.TrimPrefix(final.Base(), prefix), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, stamp, start)

	assert.Equal(t, "a", readFile(t, final.Join("inner", "a.txt")))
	assert.True(t, pathExists(src.Join("inner", "a.txt")), "source untouched in copy mode")
}

func TestPasteCutMovesAndResets(t *testing.T) {
	root := tempRoot(t)
	file := root.Join("src", "f.txt")
	dir := root.Join("src", "D")
	dst := root.Join("dst")
	writeFile(t, file, "f")
	writeFile(t, dir.Join("x.txt"), "x")
	mkdir(t, dst)

	cb := clipboard.New()
	cb.Cut([]paths.Path{file, dir})
	e := newTestEngine(t, Options{})

	tasks, err := e.Paste(context.Background(), cb, dst)
	require.NoError(t, err)
	for _, task := range tasks {
		assert.Equal(t, StatusCompleted, task.Status, task.Reason)
	}

	assert.False(t, pathExists(file))
	assert.False(t, pathExists(dir))
	assert.Equal(t, "f", readFile(t, dst.Join("f.txt")))
	assert.Equal(t, "x", readFile(t, dst.Join("D", "x.txt")))
	assert.Equal(t, 0, cb.Len())
	assert.Equal(t, clipboard.ModeCopy, cb.Mode())
}

func TestPasteCutFailureKeepsClipboard(t *testing.T) {
	root := tempRoot(t)
	good := root.Join("src", "good.txt")
	clash := root.Join("src", "f.txt")
	dst := root.Join("dst")
	writeFile(t, good, "g")
	writeFile(t, clash, "f")
	writeFile(t, dst.Join("f.txt"), "existing")
	writeFile(t, dst.Join("f - copy.txt"), "existing")

	cb := clipboard.New()
	cb.Cut([]paths.Path{good, clash})
	e := newTestEngine(t, Options{})

	tasks, err := e.Paste(context.Background(), cb, dst)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, StatusCompleted, tasks[0].Status)
	assert.Equal(t, StatusFailed, tasks[1].Status)

	assert.False(t, pathExists(good), "successful item moved")
	assert.True(t, pathExists(clash), "failed item left in place")
	assert.Equal(t, 2, cb.Len(), "cut clipboard kept while any item failed")
	assert.Equal(t, clipboard.ModeCut, cb.Mode())
}

func TestPasteEdgeCases(t *testing.T) {
	root := tempRoot(t)
	dir := root.Join("D")
	writeFile(t, dir.Join("child", "x.txt"), "x")
	writeFile(t, root.Join("f.txt"), "f")
	e := newTestEngine(t, Options{})
	ctx := context.Background()

	t.Run("into itself", func(t *testing.T) {
		tasks := e.PasteItems(ctx, []paths.Path{dir}, clipboard.ModeCopy, dir.Join("child"))
		assert.Equal(t, StatusFailed, tasks[0].Status)
		assert.ErrorIs(t, tasks[0].Err, types.ErrInvalidPath)
	})

	t.Run("vanished source", func(t *testing.T) {
		tasks := e.PasteItems(ctx, []paths.Path{root.Join("gone")}, clipboard.ModeCopy, dir)
		assert.Equal(t, StatusSkipped, tasks[0].Status)
		assert.ErrorIs(t, tasks[0].Err, types.ErrNotFound)
	})

	t.Run("cut into own parent", func(t *testing.T) {
		tasks := e.PasteItems(ctx, []paths.Path{root.Join("f.txt")}, clipboard.ModeCut, root)
		assert.Equal(t, StatusSkipped, tasks[0].Status)
		assert.True(t, pathExists(root.Join("f.txt")))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		tasks := e.PasteItems(cctx, []paths.Path{root.Join("f.txt")}, clipboard.ModeCopy, dir)
		assert.Equal(t, StatusFailed, tasks[0].Status)
		assert.ErrorIs(t, tasks[0].Err, context.Canceled)
	})

	t.Run("destination not a directory", func(t *testing.T) {
		cb := clipboard.New()
		cb.Copy([]paths.Path{dir})
		_, err := e.Paste(ctx, cb, root.Join("f.txt"))
		assert.ErrorIs(t, err, types.ErrInvalidPath)
	})

	t.Run("empty clipboard", func(t *testing.T) {
		_, err := e.Paste(ctx, clipboard.New(), root)
		assert.ErrorIs(t, err, types.ErrEmptySelection)
	})
}

func TestPasteCopiesSymlinksInsideTree(t *testing.T) {
	root := tempRoot(t)
	src := root.Join("src")
	writeFile(t, src.Join("target.txt"), "t")
	require.NoError(t, os.Symlink("target.txt", src.Join("link").OS()))
	dst := root.Join("dst")
	mkdir(t, dst)

	e := newTestEngine(t, Options{})
	tasks := e.PasteItems(context.Background(), []paths.Path{src}, clipboard.ModeCopy, dst)
	require.Equal(t, StatusCompleted, tasks[0].Status, tasks[0].Reason)

	link, err := os.Readlink(dst.Join("src", "link").OS())
	require.NoError(t, err)
	assert.Equal(t, "target.txt", link)
}

func TestPastePermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := tempRoot(t)
	src := root.Join("f.txt")
	dst := root.Join("locked")
	writeFile(t, src, "f")
	mkdir(t, dst)
	require.NoError(t, os.Chmod(dst.OS(), 0o555))
	t.Cleanup(func() { os.Chmod(dst.OS(), 0o755) })

	e := newTestEngine(t, Options{})
	tasks := e.PasteItems(context.Background(), []paths.Path{src}, clipboard.ModeCopy, dst)
	assert.Equal(t, StatusPermissionDenied, tasks[0].Status)
	assert.Equal(t, types.SeverityWarning, tasks[0].Severity())
}

func TestCopyEntryLeavesRacingTargetAlone(t *testing.T) {
	root := tempRoot(t)
	src := root.Join("src", "D")
	writeFile(t, src.Join("a.txt"), "a")

	// Another writer created the resolved name after the collision check
	racer := root.Join("dst", "D")
	writeFile(t, racer.Join("precious.txt"), "theirs")

	info, err := os.Stat(src.OS())
	require.NoError(t, err)

	e := newTestEngine(t, Options{})
	err = e.copyEntry(context.Background(), src, racer, info)
	require.Error(t, err)
	assert.ErrorIs(t, types.Classify(err), types.ErrAlreadyExists)
	assert.Equal(t, "theirs", readFile(t, racer.Join("precious.txt")))
	assert.False(t, pathExists(racer.Join("a.txt")))
}

func TestCopyEntryRemovesOwnPartialTree(t *testing.T) {
	root := tempRoot(t)
	src := root.Join("src", "D")
	writeFile(t, src.Join("a.txt"), "a")
	writeFile(t, src.Join("sub", "b.txt"), "b")
	target := root.Join("dst", "D")
	mkdir(t, target.Parent())

	info, err := os.Stat(src.OS())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestEngine(t, Options{})
	err = e.copyEntry(ctx, src, target, info)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, pathExists(target), "the engine's own partial copy is cleaned up")
}
