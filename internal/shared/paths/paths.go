package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

// Path is an absolute, normalized filesystem location
type Path string

// Volumes is the pseudo-root listing every volume
const Volumes Path = ""

// CasePolicy decides how two paths are compared
type CasePolicy int

const (
	CaseSensitive CasePolicy = iota
	CaseInsensitive
)

// Parse normalizes user-typed text into a Path. Relative input is rejected.
func Parse(text string) (Path, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Volumes, fmt.Errorf("%w: empty path", types.ErrInvalidPath)
	}
	native := filepath.Clean(filepath.FromSlash(text))
	if !filepath.IsAbs(native) {
		return Volumes, fmt.Errorf("%w: %q is not absolute", types.ErrInvalidPath, text)
	}
	return FromOS(native), nil
}

// FromOS converts an absolute native path (as returned by os or a walk)
func FromOS(native string) Path {
	if native == "" {
		return Volumes
	}
	return Path(filepath.ToSlash(filepath.Clean(native)))
}

// OS returns the native form for os.* calls
func (p Path) OS() string {
	return filepath.FromSlash(string(p))
}

func (p Path) String() string {
	return string(p)
}

// IsVolumes reports whether p is the pseudo-root
func (p Path) IsVolumes() bool {
	return p == Volumes
}

// volumeRoot returns the "/"-form volume root p lives on ("/" or "C:/")
func (p Path) volumeRoot() string {
	return filepath.ToSlash(filepath.VolumeName(p.OS())) + "/"
}

// IsVolumeRoot reports whether p is the root of a volume
func (p Path) IsVolumeRoot() bool {
	return !p.IsVolumes() && string(p) == p.volumeRoot()
}

// Parent returns the containing directory. The parent of a volume root is
// Volumes, and Volumes is its own parent.
func (p Path) Parent() Path {
	if p.IsVolumes() || p.IsVolumeRoot() {
		return Volumes
	}
	return FromOS(filepath.Dir(p.OS()))
}

// Base returns the final element; a volume root is its own base
func (p Path) Base() string {
	if p.IsVolumes() {
		return ""
	}
	if p.IsVolumeRoot() {
		return string(p)
	}
	return filepath.Base(p.OS())
}

// Ext returns the final suffix of the base name. Leading-dot names such as
// ".bashrc" and names ending in a dot have no suffix.
func (p Path) Ext() string {
	return Ext(p.Base())
}

// Stem returns the base name without Ext
func (p Path) Stem() string {
	return Stem(p.Base())
}

// Ext returns the suffix of a bare name, following the same rules as Path.Ext
func Ext(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// Stem returns a bare name without its Ext
func Stem(name string) string {
	return strings.TrimSuffix(name, Ext(name))
}

// Join appends elements below p
func (p Path) Join(elem ...string) Path {
	if p.IsVolumes() {
		return Volumes
	}
	parts := append([]string{p.OS()}, elem...)
	return FromOS(filepath.Join(parts...))
}

// Segments splits p for breadcrumb display, volume root first
func (p Path) Segments() []string {
	if p.IsVolumes() {
		return nil
	}
	root := p.volumeRoot()
	segments := []string{root}
	for _, s := range strings.Split(strings.TrimPrefix(string(p), root), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// JoinSegments rebuilds a Path from Segments output
func JoinSegments(segments []string) Path {
	if len(segments) == 0 {
		return Volumes
	}
	root := Path(segments[0])
	return root.Join(segments[1:]...)
}

func fold(p Path, policy CasePolicy) string {
	if policy == CaseInsensitive {
		return strings.ToLower(string(p))
	}
	return string(p)
}

// Equal compares two paths under the given case policy
func Equal(a, b Path, policy CasePolicy) bool {
	return fold(a, policy) == fold(b, policy)
}

// Contains reports whether other is p itself or lies beneath p
func (p Path) Contains(other Path, policy CasePolicy) bool {
	if p.IsVolumes() {
		return true
	}
	parent, child := fold(p, policy), fold(other, policy)
	if parent == child {
		return true
	}
	if !strings.HasSuffix(parent, "/") {
		parent += "/"
	}
	return strings.HasPrefix(child, parent)
}
