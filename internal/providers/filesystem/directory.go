package filesystem

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

// ReadDir lists the direct children of dir sorted by name. Entries that
// vanish between the listing and their stat are left out. Symlinks to
// directories are reported as directories.
func (e *Engine) ReadDir(ctx context.Context, dir paths.Path) ([]Entry, error) {
	if err := requireDir(dir); err != nil {
		return nil, wrap("list", err)
	}

	dirents, err := os.ReadDir(dir.OS())
	if err != nil {
		return nil, wrap("list", err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := d.Info()
		if err != nil {
			if !os.IsNotExist(err) {
				e.log.Debug("stat failed during listing", zap.String("name", d.Name()), zap.Error(err))
			}
			continue
		}

		entry := entryFromInfo(dir.Join(d.Name()), info)
		if entry.Symlink {
			if target, err := os.Stat(entry.Path.OS()); err == nil {
				entry.Kind = kindOf(target)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// VolumeEntries lists the volume roots as directory entries
func VolumeEntries() []Entry {
	volumes := paths.ListVolumes()
	entries := make([]Entry, 0, len(volumes))
	for _, v := range volumes {
		entry := Entry{Path: v, Name: v.String(), Kind: KindDirectory}
		if info, err := os.Stat(v.OS()); err == nil {
			entry.Mode = info.Mode().String()
			entry.Modified = info.ModTime()
		}
		entries = append(entries, entry)
	}
	return entries
}
