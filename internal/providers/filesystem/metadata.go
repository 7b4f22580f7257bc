package filesystem

import (
	"context"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"

	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

const (
	directoryMIME = "inode/directory"

	// charsetSample is how much of a text file feeds charset detection
	charsetSample = 8 << 10
)

// Describe reads the current metadata of path, including its MIME type
func (e *Engine) Describe(ctx context.Context, path paths.Path) (Entry, error) {
	info, err := os.Lstat(path.OS())
	if err != nil {
		return Entry{}, wrap("describe", err)
	}

	entry := entryFromInfo(path, info)
	if entry.Symlink {
		// Report what the link points at; a dangling link stays a file
		if target, err := os.Stat(path.OS()); err == nil {
			entry.Kind = kindOf(target)
			entry.Size = target.Size()
		}
	}

	if entry.IsDir() {
		entry.MIME = directoryMIME
		return entry, nil
	}

	mtype, err := mimetype.DetectFile(path.OS())
	if err != nil {
		return Entry{}, wrap("describe", err)
	}
	entry.MIME = mtype.String()
	if strings.HasPrefix(mtype.String(), "text/") {
		entry.Charset = detectCharset(path)
	}
	return entry, nil
}

// detectCharset guesses the encoding of a text file from its first bytes.
// It returns "" when the file cannot be read or nothing matches.
func detectCharset(path paths.Path) string {
	f, err := os.Open(path.OS())
	if err != nil {
		return ""
	}
	defer f.Close()

	sample, err := io.ReadAll(io.LimitReader(f, charsetSample))
	if err != nil || len(sample) == 0 {
		return ""
	}
	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || result == nil {
		return ""
	}
	return strings.ToLower(result.Charset)
}

func entryFromInfo(path paths.Path, info fs.FileInfo) Entry {
	name := path.Base()
	return Entry{
		Path:     path,
		Name:     name,
		Kind:     kindOf(info),
		Size:     info.Size(),
		Mode:     info.Mode().String(),
		Modified: info.ModTime(),
		Hidden:   IsHidden(name),
		Symlink:  info.Mode()&fs.ModeSymlink != 0,
	}
}

func kindOf(info fs.FileInfo) Kind {
	if info.IsDir() {
		return KindDirectory
	}
	return KindFile
}

// IsHidden reports whether name is hidden by the dot-prefix convention
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
