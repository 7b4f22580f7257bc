package filesystem

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
	"github.com/GriffinCanCode/filecore/internal/shared/utils"
)

// DeletePermanently removes every item outright. Items are independent:
// one failure never stops the rest.
func (e *Engine) DeletePermanently(ctx context.Context, items []paths.Path) []TransferTask {
	defer e.timer("delete").Stop()

	tasks := make([]TransferTask, 0, len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			tasks = append(tasks, e.record("delete", cancelled(ctx, item, paths.Volumes)))
			continue
		}
		tasks = append(tasks, e.record("delete", e.deleteOne(item)))
	}
	return tasks
}

func (e *Engine) deleteOne(item paths.Path) TransferTask {
	if item.IsVolumes() || item.IsVolumeRoot() {
		return failed(item, paths.Volumes, fmt.Errorf("%w: refusing to delete a volume root", types.ErrForbidden))
	}
	if _, err := os.Lstat(item.OS()); err != nil {
		if os.IsNotExist(err) {
			return skipped(item, paths.Volumes, "already gone", types.ErrNotFound)
		}
		return failed(item, paths.Volumes, err)
	}
	if err := os.RemoveAll(item.OS()); err != nil {
		return failed(item, paths.Volumes, err)
	}
	return completed(item, paths.Volumes, paths.Volumes)
}

// MoveToRecycle hands every item to the trash collaborator
func (e *Engine) MoveToRecycle(ctx context.Context, items []paths.Path) []TransferTask {
	defer e.timer("recycle").Stop()

	tasks := make([]TransferTask, 0, len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			tasks = append(tasks, e.record("recycle", cancelled(ctx, item, paths.Volumes)))
			continue
		}
		tasks = append(tasks, e.record("recycle", e.recycleOne(item)))
	}
	return tasks
}

func (e *Engine) recycleOne(item paths.Path) TransferTask {
	if e.opts.Trash == nil {
		return failed(item, paths.Volumes, fmt.Errorf("%w: no trash available", types.ErrNotSupported))
	}
	if item.IsVolumes() || item.IsVolumeRoot() {
		return failed(item, paths.Volumes, fmt.Errorf("%w: refusing to recycle a volume root", types.ErrForbidden))
	}
	if err := e.opts.Trash.Put(item); err != nil {
		return failed(item, paths.Volumes, err)
	}
	return completed(item, paths.Volumes, paths.Volumes)
}

// Rename gives item a new name within its parent
func (e *Engine) Rename(ctx context.Context, item paths.Path, newName string) (paths.Path, error) {
	defer e.timer("rename").Stop()

	if err := utils.ValidateName(newName); err != nil {
		return paths.Volumes, wrap("rename", err)
	}
	if item.IsVolumes() || item.IsVolumeRoot() {
		return paths.Volumes, wrap("rename", fmt.Errorf("%w: cannot rename a volume root", types.ErrForbidden))
	}

	current, err := os.Lstat(item.OS())
	if err != nil {
		return paths.Volumes, wrap("rename", err)
	}

	target := item.Parent().Join(newName)
	if target == item {
		return item, nil
	}

	// A case-only rename on a case-insensitive volume finds the item itself
	if existing, err := os.Lstat(target.OS()); err == nil {
		caseOnly := strings.EqualFold(newName, item.Base())
		if !caseOnly || !os.SameFile(current, existing) {
			return paths.Volumes, wrap("rename", fmt.Errorf("%w: %s", types.ErrAlreadyExists, target))
		}
	} else if !os.IsNotExist(err) {
		return paths.Volumes, wrap("rename", err)
	}

	if err := os.Rename(item.OS(), target.OS()); err != nil {
		return paths.Volumes, wrap("rename", err)
	}

	e.log.Info("renamed", zap.String("from", item.String()), zap.String("to", target.String()))
	return target, nil
}

// CreateDirectory makes an empty directory named name inside parent
func (e *Engine) CreateDirectory(ctx context.Context, parent paths.Path, name string) (paths.Path, error) {
	defer e.timer("mkdir").Stop()

	if err := utils.ValidateName(name); err != nil {
		return paths.Volumes, wrap("mkdir", err)
	}
	if err := requireDir(parent); err != nil {
		return paths.Volumes, wrap("mkdir", err)
	}

	target := parent.Join(name)
	if err := os.Mkdir(target.OS(), 0o755); err != nil {
		return paths.Volumes, wrap("mkdir", err)
	}

	e.log.Info("directory created", zap.String("path", target.String()))
	return target, nil
}

// CreateFile makes an empty file named name inside parent
func (e *Engine) CreateFile(ctx context.Context, parent paths.Path, name string) (paths.Path, error) {
	defer e.timer("touch").Stop()

	if err := utils.ValidateName(name); err != nil {
		return paths.Volumes, wrap("touch", err)
	}
	if parent.IsVolumes() {
		return paths.Volumes, wrap("touch", fmt.Errorf("%w: files cannot be created in the volume list", types.ErrForbidden))
	}
	if err := requireDir(parent); err != nil {
		return paths.Volumes, wrap("touch", err)
	}

	target := parent.Join(name)
	f, err := os.OpenFile(target.OS(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return paths.Volumes, wrap("touch", err)
	}
	if err := f.Close(); err != nil {
		return paths.Volumes, wrap("touch", err)
	}

	e.log.Info("file created", zap.String("path", target.String()))
	return target, nil
}

// Open passes path to the platform default handler. Only a missing path is
// reported; launch failures are logged and dropped.
func (e *Engine) Open(ctx context.Context, path paths.Path) error {
	if _, err := os.Stat(path.OS()); os.IsNotExist(err) {
		return wrap("open", err)
	}
	if e.opts.Opener == nil {
		e.log.Debug("no opener configured", zap.String("path", path.String()))
		return nil
	}
	if err := e.opts.Opener.Open(ctx, path); err != nil {
		e.log.Debug("open failed", zap.String("path", path.String()), zap.Error(err))
	}
	return nil
}
