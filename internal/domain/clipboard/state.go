package clipboard

import (
	"sync"

	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

// Mode is the paste intent of the current selection
type Mode string

const (
	ModeCopy Mode = "copy"
	ModeCut  Mode = "cut"
)

// State is a deduplicated selection plus its paste mode
type State struct {
	mu    sync.Mutex
	items []paths.Path // Protected by mu, insertion order, no duplicates
	mode  Mode         // Protected by mu
}

// New returns an empty clipboard in Copy mode
func New() *State {
	return &State{mode: ModeCopy}
}

// Copy replaces the selection and sets Copy mode
func (s *State) Copy(items []paths.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = dedupe(items)
	s.mode = ModeCopy
}

// Cut replaces the selection and sets Cut mode
func (s *State) Cut(items []paths.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = dedupe(items)
	s.mode = ModeCut
}

// SetSelection replaces the selection without touching the mode
func (s *State) SetSelection(items []paths.Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = dedupe(items)
}

// MarkCutIntent switches the current selection to Cut
func (s *State) MarkCutIntent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeCut
}

// Items returns a copy of the selection
func (s *State) Items() []paths.Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]paths.Path(nil), s.items...)
}

func (s *State) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Clear empties the selection and returns to Copy mode
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.mode = ModeCopy
}

// Consume passes a snapshot of the selection to fn. When fn returns nil and
// the mode was Cut, the selection is cleared and the mode returns to Copy.
// The lock is not held while fn runs.
func (s *State) Consume(fn func(items []paths.Path, mode Mode) error) error {
	s.mu.Lock()
	items := append([]paths.Path(nil), s.items...)
	mode := s.mode
	s.mu.Unlock()

	if len(items) == 0 {
		return types.ErrEmptySelection
	}

	if err := fn(items, mode); err != nil {
		return err
	}

	if mode == ModeCut {
		s.mu.Lock()
		// Only reset the selection we handed out; a Cut taken while fn ran stays
		if s.mode == ModeCut && samePaths(s.items, items) {
			s.items = nil
			s.mode = ModeCopy
		}
		s.mu.Unlock()
	}
	return nil
}

func dedupe(items []paths.Path) []paths.Path {
	seen := make(map[paths.Path]struct{}, len(items))
	out := make([]paths.Path, 0, len(items))
	for _, p := range items {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func samePaths(a, b []paths.Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
