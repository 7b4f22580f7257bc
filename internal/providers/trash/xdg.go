package trash

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/filecore/internal/logging"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

const (
	infoExt        = ".trashinfo"
	infoHeader     = "[Trash Info]"
	dateLayout     = "2006-01-02T15:04:05"
	maxNameAttempt = 1000
)

// Item is one entry currently in the trash
type Item struct {
	Name         string     `json:"name"`
	OriginalPath paths.Path `json:"original_path"`
	DeletedAt    time.Time  `json:"deleted_at"`
}

// XDG is a home trash directory
type XDG struct {
	root string
	now  func() time.Time
	log  *logging.Logger
}

// DefaultRoot returns $XDG_DATA_HOME/Trash, falling back to ~/.local/share/Trash
func DefaultRoot() (string, error) {
	if data := os.Getenv("XDG_DATA_HOME"); data != "" {
		return filepath.Join(data, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: no home directory for trash: %v", types.ErrNotSupported, err)
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

// NewXDG opens the trash at root, or DefaultRoot when root is empty
func NewXDG(root string, log *logging.Logger) (*XDG, error) {
	if root == "" {
		var err error
		if root, err = DefaultRoot(); err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &XDG{root: root, now: time.Now, log: log.Named("trash")}, nil
}

// Root returns the trash directory
func (x *XDG) Root() string {
	return x.root
}

func (x *XDG) filesDir() string { return filepath.Join(x.root, "files") }
func (x *XDG) infoDir() string  { return filepath.Join(x.root, "info") }

// Put moves path into the trash
func (x *XDG) Put(path paths.Path) error {
	if runtime.GOOS == "windows" {
		return fmt.Errorf("%w: recycle bin is not available on %s", types.ErrNotSupported, runtime.GOOS)
	}
	if paths.FromOS(x.root).Contains(path, paths.CaseSensitive) {
		return fmt.Errorf("%w: %s is inside the trash", types.ErrInvalidPath, path)
	}
	if _, err := os.Lstat(path.OS()); err != nil {
		return types.Classify(err)
	}

	for _, dir := range []string{x.filesDir(), x.infoDir()} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return types.Classify(err)
		}
	}

	name, infoPath, err := x.reserve(path)
	if err != nil {
		return err
	}

	if err := os.Rename(path.OS(), filepath.Join(x.filesDir(), name)); err != nil {
		os.Remove(infoPath)
		if errors.Is(err, syscall.EXDEV) {
			return fmt.Errorf("%w: %s is on another volume than the trash", types.ErrNotSupported, path)
		}
		return types.Classify(err)
	}

	x.log.Debug("trashed", zap.String("path", path.String()), zap.String("name", name))
	return nil
}

// reserve claims a free trash name by creating its info file exclusively
func (x *XDG) reserve(path paths.Path) (string, string, error) {
	base := path.Base()
	stem, ext := paths.Stem(base), paths.Ext(base)

	body := fmt.Sprintf("%s\nPath=%s\nDeletionDate=%s\n",
		infoHeader, escapePath(path), x.now().Format(dateLayout))

	for i := 1; i <= maxNameAttempt; i++ {
		name := base
		if i > 1 {
			name = stem + "." + strconv.Itoa(i) + ext
		}
		infoPath := filepath.Join(x.infoDir(), name+infoExt)

		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", types.Classify(err)
		}

		// The files/ slot can be taken by a leftover without an info file
		if _, err := os.Lstat(filepath.Join(x.filesDir(), name)); err == nil {
			f.Close()
			os.Remove(infoPath)
			continue
		}

		_, werr := f.WriteString(body)
		cerr := f.Close()
		if werr != nil || cerr != nil {
			os.Remove(infoPath)
			return "", "", errors.Join(werr, cerr)
		}
		return name, infoPath, nil
	}
	return "", "", fmt.Errorf("%w: no free trash name for %s", types.ErrAlreadyExists, base)
}

// List returns the trash contents, newest first
func (x *XDG) List() ([]Item, error) {
	dirents, err := os.ReadDir(x.infoDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, types.Classify(err)
	}

	items := make([]Item, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), infoExt) {
			continue
		}
		item, err := readInfo(filepath.Join(x.infoDir(), d.Name()))
		if err != nil {
			x.log.Debug("unreadable trash info", zap.String("file", d.Name()), zap.Error(err))
			continue
		}
		item.Name = strings.TrimSuffix(d.Name(), infoExt)
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].DeletedAt.After(items[j].DeletedAt) })
	return items, nil
}

func readInfo(path string) (Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return Item{}, err
	}
	defer f.Close()

	var item Item
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		switch key {
		case "Path":
			unescaped, err := url.PathUnescape(value)
			if err != nil {
				return Item{}, fmt.Errorf("path: %w", err)
			}
			item.OriginalPath = paths.FromOS(unescaped)
		case "DeletionDate":
			t, err := time.ParseInLocation(dateLayout, value, time.Local)
			if err != nil {
				return Item{}, fmt.Errorf("deletion date: %w", err)
			}
			item.DeletedAt = t
		}
	}
	if err := scanner.Err(); err != nil {
		return Item{}, err
	}
	if item.OriginalPath == "" {
		return Item{}, errors.New("missing Path key")
	}
	return item, nil
}

// escapePath percent-encodes a path but keeps its separators
func escapePath(p paths.Path) string {
	return (&url.URL{Path: p.String()}).EscapedPath()
}
