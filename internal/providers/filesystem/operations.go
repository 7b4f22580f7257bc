package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/filecore/internal/domain/clipboard"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

// Clipboard is the selection Paste consumes
type Clipboard interface {
	Consume(fn func(items []paths.Path, mode clipboard.Mode) error) error
}

var errIncomplete = errors.New("paste incomplete")

// Paste copies (or moves, in Cut mode) every clipboard item into
// destination. The clipboard is reset only when no item failed. Per-item
// failures are reported in the returned tasks; the error is reserved for
// problems with the call as a whole.
func (e *Engine) Paste(ctx context.Context, cb Clipboard, destination paths.Path) ([]TransferTask, error) {
	defer e.timer("paste").Stop()

	if err := requireDir(destination); err != nil {
		return nil, wrap("paste", err)
	}

	var tasks []TransferTask
	err := cb.Consume(func(items []paths.Path, mode clipboard.Mode) error {
		tasks = e.PasteItems(ctx, items, mode, destination)
		for _, t := range tasks {
			if !t.OK() {
				return errIncomplete
			}
		}
		return nil
	})
	if errors.Is(err, errIncomplete) {
		err = nil
	}
	if err != nil {
		return nil, wrap("paste", err)
	}

	e.log.Info("paste finished",
		zap.String("destination", destination.String()),
		zap.Int("items", len(tasks)))
	return tasks, nil
}

// PasteItems runs the per-item paste without touching any clipboard
func (e *Engine) PasteItems(ctx context.Context, items []paths.Path, mode clipboard.Mode, destination paths.Path) []TransferTask {
	tasks := make([]TransferTask, 0, len(items))
	for _, src := range items {
		if ctx.Err() != nil {
			tasks = append(tasks, e.record("paste", cancelled(ctx, src, destination)))
			continue
		}
		tasks = append(tasks, e.record("paste", e.pasteOne(ctx, src, mode, destination)))
	}
	return tasks
}

func (e *Engine) pasteOne(ctx context.Context, src paths.Path, mode clipboard.Mode, dst paths.Path) TransferTask {
	if src.IsVolumes() || src.IsVolumeRoot() {
		return failed(src, dst, fmt.Errorf("%w: cannot paste a volume root", types.ErrInvalidPath))
	}

	// Top-level symlinks are followed
	info, err := os.Stat(src.OS())
	if os.IsNotExist(err) {
		return skipped(src, dst, "source no longer exists", types.ErrNotFound)
	}
	if err != nil {
		return failed(src, dst, err)
	}

	if info.IsDir() && src.Contains(dst, e.opts.CasePolicy) {
		return failed(src, dst, fmt.Errorf("%w: cannot paste %s into itself", types.ErrInvalidPath, src.Base()))
	}

	if mode == clipboard.ModeCut && paths.Equal(src.Parent(), dst, e.opts.CasePolicy) {
		return skipped(src, dst, "already in destination", nil)
	}

	target, err := e.namer.Resolve(dst, src.Base(), info.IsDir())
	if err != nil {
		return failed(src, dst, err)
	}

	if err := e.copyEntry(ctx, src, target, info); err != nil {
		return failed(src, dst, err)
	}

	if mode == clipboard.ModeCut {
		if err := os.RemoveAll(src.OS()); err != nil {
			task := failed(src, dst, fmt.Errorf("copied to %s but source was not removed: %w", target, err))
			task.FinalPath = target
			return task
		}
	}

	return completed(src, dst, target)
}

// copyEntry copies src (already stat'ed, symlinks resolved) to a target
// that must not exist. Only what the copy itself created is removed on
// failure; a target someone else created first is left alone.
func (e *Engine) copyEntry(ctx context.Context, src, target paths.Path, info os.FileInfo) error {
	if !info.IsDir() {
		return copyFile(src.OS(), target.OS(), info)
	}

	root := src.OS()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return e.copyTree(ctx, root, target.OS(), info)
}

type dirTimes struct {
	path string
	info os.FileInfo
}

// copyTree replicates a directory with fastwalk. fastwalk hands a directory
// to the callback before queueing its children, so parents always exist by
// the time a child is copied.
func (e *Engine) copyTree(ctx context.Context, srcRoot, dstRoot string, rootInfo os.FileInfo) (err error) {
	if err := os.Mkdir(dstRoot, rootInfo.Mode().Perm()|0o700); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dstRoot)
		}
	}()

	var mu sync.Mutex
	dirs := []dirTimes{{path: dstRoot, info: rootInfo}}

	conf := fastwalk.Config{Follow: false, NumWorkers: e.opts.WalkWorkers}
	err = fastwalk.Walk(&conf, srcRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == srcRoot {
			return nil
		}
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(dstRoot, rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, dst)

		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return err
			}
			if err := os.Mkdir(dst, info.Mode().Perm()|0o700); err != nil {
				return err
			}
			mu.Lock()
			dirs = append(dirs, dirTimes{path: dst, info: info})
			mu.Unlock()
			return nil

		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return err
			}
			return copyFile(path, dst, info)

		default:
			// Sockets, devices and pipes are not copied
			e.log.Debug("skipping special file", zap.String("path", path))
			return nil
		}
	})
	if err != nil {
		return err
	}

	for _, d := range dirs {
		os.Chmod(d.path, d.info.Mode().Perm())
		os.Chtimes(d.path, accessTime(d.info), d.info.ModTime())
	}
	return nil
}

// copyFile writes src to a new dst, preserving mode and timestamps
func copyFile(src, dst string, info os.FileInfo) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	// O_CREATE applied the umask
	if err = out.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, accessTime(info), info.ModTime())
}

func requireDir(p paths.Path) error {
	if p.IsVolumes() {
		return fmt.Errorf("%w: the volume list is not a directory", types.ErrInvalidPath)
	}
	info, err := os.Stat(p.OS())
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s does not exist", types.ErrInvalidPath, p)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", types.ErrInvalidPath, p)
	}
	return nil
}
