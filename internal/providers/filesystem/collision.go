package filesystem

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

const (
	fileCopySuffix = " - copy"
	dirCopySuffix  = " - copy at "
)

// CollisionNamer picks a paste destination that does not exist yet.
//
// A file collision inserts " - copy" between stem and extension exactly once;
// if that name is taken as well the paste fails rather than trying
// " - copy - copy". A directory collision appends " - copy at <unix ms>".
// The check is a snapshot: a concurrent writer can still win the race, which
// the exclusive create in the copy reports as a failure.
type CollisionNamer struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64 // Protected by mu, last stamp handed out
}

// NewCollisionNamer returns a namer reading time from now (time.Now if nil)
func NewCollisionNamer(now func() time.Time) *CollisionNamer {
	if now == nil {
		now = time.Now
	}
	return &CollisionNamer{now: now}
}

// Resolve returns dir/base, or its renamed variant when dir/base exists.
// A directory stamp is always later than the millisecond Resolve was
// entered in.
func (n *CollisionNamer) Resolve(dir paths.Path, base string, isDirectory bool) (paths.Path, error) {
	entered := n.now().UnixMilli()
	candidate := dir.Join(base)
	taken, err := exists(candidate)
	if err != nil {
		return paths.Volumes, err
	}
	if !taken {
		return candidate, nil
	}

	if isDirectory {
		candidate = dir.Join(base + dirCopySuffix + strconv.FormatInt(n.stamp(entered), 10))
	} else {
		candidate = dir.Join(paths.Stem(base) + fileCopySuffix + paths.Ext(base))
	}

	taken, err = exists(candidate)
	if err != nil {
		return paths.Volumes, err
	}
	if taken {
		return paths.Volumes, fmt.Errorf("%w: %s", types.ErrAlreadyExists, candidate)
	}
	return candidate, nil
}

// stamp returns milliseconds since the epoch, greater than entered and
// strictly increasing per namer
func (n *CollisionNamer) stamp(entered int64) int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	ms := n.now().UnixMilli()
	if ms <= entered {
		ms = entered + 1
	}
	if ms <= n.last {
		ms = n.last + 1
	}
	n.last = ms
	return ms
}

func exists(p paths.Path) (bool, error) {
	_, err := os.Lstat(p.OS())
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, types.Classify(err)
	}
}
