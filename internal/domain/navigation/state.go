package navigation

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GriffinCanCode/filecore/internal/providers/filesystem"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

// Change describes one root transition
type Change struct {
	Previous   paths.Path `json:"previous"`
	Root       paths.Path `json:"root"`
	Breadcrumb []string   `json:"breadcrumb"`
}

// Lister reads directory contents for List
type Lister interface {
	ReadDir(ctx context.Context, dir paths.Path) ([]filesystem.Entry, error)
}

// ListOptions filters List output
type ListOptions struct {
	ShowHidden bool
	Pattern    string
}

// State is the current root and breadcrumb of one session
type State struct {
	lister Lister

	mu          sync.Mutex
	root        paths.Path
	breadcrumb  []string
	subscribers map[int]func(Change)
	nextSub     int
}

// New starts at the pseudo-root
func New(lister Lister) *State {
	return &State{
		lister:      lister,
		root:        paths.Volumes,
		subscribers: make(map[int]func(Change)),
	}
}

// Root returns the directory being shown
func (s *State) Root() paths.Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Breadcrumb returns the root's segments, volume root first
func (s *State) Breadcrumb() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.breadcrumb...)
}

// Snapshot returns root and breadcrumb read together
func (s *State) Snapshot() Change {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Change{Previous: s.root, Root: s.root, Breadcrumb: append([]string(nil), s.breadcrumb...)}
}

// Enter makes path the root. It must be an existing directory.
func (s *State) Enter(path paths.Path) error {
	if err := checkDir(path); err != nil {
		return err
	}
	s.set(path)
	return nil
}

// GoBack moves to the parent. A volume root goes to the pseudo-root and the
// pseudo-root stays put.
func (s *State) GoBack() {
	s.mu.Lock()
	root := s.root
	s.mu.Unlock()

	if root.IsVolumes() {
		return
	}
	s.set(root.Parent())
}

// JumpToBreadcrumbSegment makes segments [0..index] the root
func (s *State) JumpToBreadcrumbSegment(index int) error {
	crumbs := s.Breadcrumb()
	if index < 0 || index >= len(crumbs) {
		return fmt.Errorf("%w: breadcrumb index %d out of range [0,%d)", types.ErrInvalidPath, index, len(crumbs))
	}
	return s.Enter(paths.JoinSegments(crumbs[:index+1]))
}

// SetRootFromTypedPath parses text and makes it the root. Paths that are
// missing or not directories are rejected with ErrInvalidPath.
func (s *State) SetRootFromTypedPath(text string) error {
	path, err := paths.Parse(text)
	if err != nil {
		return err
	}
	info, err := os.Stat(path.OS())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", types.ErrInvalidPath, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", types.ErrInvalidPath, path)
	}
	s.set(path)
	return nil
}

// Home returns to the pseudo-root
func (s *State) Home() {
	s.set(paths.Volumes)
}

// OnChange registers fn for every root change. fn runs on the goroutine
// that changed the root and must not call back into s.
func (s *State) OnChange(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// List returns the root's entries sorted by name. At the pseudo-root it
// returns the volumes.
func (s *State) List(ctx context.Context, opts ListOptions) ([]filesystem.Entry, error) {
	if opts.Pattern != "" && !doublestar.ValidatePattern(opts.Pattern) {
		return nil, fmt.Errorf("%w: bad pattern %q", types.ErrInvalidName, opts.Pattern)
	}

	root := s.Root()
	var entries []filesystem.Entry
	if root.IsVolumes() {
		entries = filesystem.VolumeEntries()
	} else {
		var err error
		if entries, err = s.lister.ReadDir(ctx, root); err != nil {
			return nil, err
		}
	}

	out := entries[:0]
	for _, e := range entries {
		if e.Hidden && !opts.ShowHidden {
			continue
		}
		if opts.Pattern != "" {
			if ok, _ := doublestar.Match(opts.Pattern, e.Name); !ok {
				continue
			}
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *State) set(root paths.Path) {
	s.mu.Lock()
	change := Change{Previous: s.root, Root: root, Breadcrumb: root.Segments()}
	s.root = root
	s.breadcrumb = change.Breadcrumb
	subs := make([]func(Change), 0, len(s.subscribers))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		c := change
		c.Breadcrumb = append([]string(nil), change.Breadcrumb...)
		fn(c)
	}
}

func checkDir(path paths.Path) error {
	if path.IsVolumes() {
		return nil
	}
	info, err := os.Stat(path.OS())
	if err != nil {
		return types.Classify(err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", types.ErrInvalidPath, path)
	}
	return nil
}
