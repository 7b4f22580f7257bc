package workers

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

// sizeOf returns a file's length or the total length of the regular files
// below a directory. Symlinks inside the tree and entries that vanish or
// cannot be read are skipped.
func sizeOf(ctx context.Context, target paths.Path, workers int) (int64, error) {
	if target.IsVolumes() {
		return 0, fmt.Errorf("%w: cannot size the volume list", types.ErrInvalidPath)
	}

	info, err := os.Stat(target.OS())
	if err != nil {
		return 0, types.Classify(err)
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	root := target.OS()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	var total atomic.Int64
	conf := fastwalk.Config{Follow: false, NumWorkers: workers}
	err = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if path == root {
				return types.Classify(err)
			}
			return nil
		}
		if path == root || !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		total.Add(fi.Size())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total.Load(), nil
}

// search walks root and sends a Found for each match
func (p *Pool) search(ctx context.Context, job *Job, query string, root paths.Path) error {
	if query == "" {
		return fmt.Errorf("%w: empty search query", types.ErrInvalidName)
	}

	roots := []paths.Path{root}
	if root.IsVolumes() {
		roots = paths.ListVolumes()
	} else if err := requireDir(root); err != nil {
		return err
	}

	match := matcher(query, p.opts.CasePolicy)
	for _, r := range roots {
		if err := p.searchOne(ctx, job, r, match); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pool) searchOne(ctx context.Context, job *Job, root paths.Path, match func(name string, dir bool) bool) error {
	rootOS := root.OS()
	if resolved, err := filepath.EvalSymlinks(rootOS); err == nil {
		rootOS = resolved
	}

	conf := fastwalk.Config{Follow: false, NumWorkers: p.opts.WalkWorkers}
	return fastwalk.Walk(&conf, rootOS, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if path == rootOS {
				return types.Classify(err)
			}
			return nil
		}
		if path == rootOS || !match(d.Name(), d.IsDir()) {
			return nil
		}

		// Report matches under the root as given, not its resolved form
		rel, err := filepath.Rel(rootOS, filepath.Dir(path))
		if err != nil {
			return err
		}
		found := Found{Dir: root.Join(rel), Name: d.Name()}
		select {
		case job.events <- found:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// matcher accepts directories named exactly query and other entries whose
// name starts with query
func matcher(query string, policy paths.CasePolicy) func(name string, dir bool) bool {
	if policy == paths.CaseInsensitive {
		query = strings.ToLower(query)
	}
	return func(name string, dir bool) bool {
		if policy == paths.CaseInsensitive {
			name = strings.ToLower(name)
		}
		if dir {
			return name == query
		}
		return strings.HasPrefix(name, query)
	}
}

func requireDir(p paths.Path) error {
	info, err := os.Stat(p.OS())
	if err != nil {
		return types.Classify(err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", types.ErrInvalidPath, p)
	}
	return nil
}
