package filesystem

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
	"github.com/GriffinCanCode/filecore/internal/shared/utils"
)

// ArchiveFormat is a container Extract understands
type ArchiveFormat string

const (
	FormatZip    ArchiveFormat = "zip"
	FormatTar    ArchiveFormat = "tar"
	FormatTarGz  ArchiveFormat = "tar.gz"
	FormatTarZst ArchiveFormat = "tar.zst"
)

// Archive compresses the selection into <parent>/<name>.zip.
//
// Selections larger than the staging threshold are first copied into a
// transient "zip" directory beside the first item, and that directory is
// archived. Smaller selections archive only the first item. The staging
// directory never outlives the call. An empty nameHint defaults to the stem
// of whatever is being archived.
func (e *Engine) Archive(ctx context.Context, items []paths.Path, nameHint string) (paths.Path, error) {
	defer e.timer("archive").Stop()

	if len(items) == 0 {
		return paths.Volumes, wrap("archive", types.ErrEmptySelection)
	}

	first := items[0]
	if first.IsVolumes() || first.IsVolumeRoot() {
		return paths.Volumes, wrap("archive", fmt.Errorf("%w: cannot archive a volume root", types.ErrInvalidPath))
	}

	parent := first.Parent()
	staged := len(items) > e.opts.StagingThreshold
	subject := first
	if staged {
		subject = parent.Join(StagingDirName)
	}

	name := nameHint
	if name == "" {
		name = subject.Stem()
	}
	if err := utils.ValidateName(name); err != nil {
		return paths.Volumes, wrap("archive", err)
	}

	archivePath := parent.Join(name + ".zip")
	taken, err := exists(archivePath)
	if err != nil {
		return paths.Volumes, wrap("archive", err)
	}
	if taken {
		return paths.Volumes, wrap("archive", fmt.Errorf("%w: %s", types.ErrAlreadyExists, archivePath))
	}

	if staged {
		if err := os.Mkdir(subject.OS(), 0o755); err != nil {
			return paths.Volumes, wrap("archive", fmt.Errorf("staging directory: %w", types.Classify(err)))
		}
		defer os.RemoveAll(subject.OS())

		if err := e.stage(ctx, items, subject); err != nil {
			return paths.Volumes, wrap("archive", err)
		}
	} else if _, err := os.Lstat(subject.OS()); err != nil {
		return paths.Volumes, wrap("archive", err)
	}

	if err := e.writeZip(ctx, subject, archivePath); err != nil {
		return paths.Volumes, wrap("archive", err)
	}

	e.log.Info("archive created",
		zap.String("archive", archivePath.String()),
		zap.Int("items", len(items)),
		zap.Bool("staged", staged))
	return archivePath, nil
}

// stage copies every item into the staging directory
func (e *Engine) stage(ctx context.Context, items []paths.Path, staging paths.Path) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := os.Stat(item.OS())
		if err != nil {
			return fmt.Errorf("stage %s: %w", item, types.Classify(err))
		}
		if info.IsDir() && item.Contains(staging, e.opts.CasePolicy) {
			return fmt.Errorf("%w: cannot stage %s into itself", types.ErrInvalidPath, item)
		}
		if err := e.copyEntry(ctx, item, staging.Join(item.Base()), info); err != nil {
			return fmt.Errorf("stage %s: %w", item, types.Classify(err))
		}
	}
	return nil
}

type zipSource struct {
	path string // native path on disk
	name string // slash-separated name inside the archive
	info os.FileInfo
}

// collectEntries walks subject and returns its archive entries sorted by
// name, so parents precede children. Symlinks to regular files are stored
// as the file they point at; other links are left out.
func (e *Engine) collectEntries(ctx context.Context, subject paths.Path) ([]zipSource, error) {
	root := subject.OS()
	base := subject.Base()

	rootInfo, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !rootInfo.IsDir() {
		return []zipSource{{path: root, name: base, info: rootInfo}}, nil
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	var mu sync.Mutex
	entries := []zipSource{{path: root, name: base + "/", info: rootInfo}}

	conf := fastwalk.Config{Follow: false, NumWorkers: e.opts.WalkWorkers}
	err = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == root {
			return nil
		}
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := base + "/" + filepath.ToSlash(rel)

		var info os.FileInfo
		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
			info = target
		case d.IsDir():
			if info, err = d.Info(); err != nil {
				return err
			}
			name += "/"
		case d.Type().IsRegular():
			if info, err = d.Info(); err != nil {
				return err
			}
		default:
			return nil
		}

		mu.Lock()
		entries = append(entries, zipSource{path: path, name: name, info: info})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	return entries, nil
}

// writeZip creates archivePath exclusively; a partial archive is removed
func (e *Engine) writeZip(ctx context.Context, subject, archivePath paths.Path) (err error) {
	entries, err := e.collectEntries(ctx, subject)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(archivePath.OS(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(archivePath.OS())
		}
	}()

	zw := zip.NewWriter(f)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := addZipEntry(zw, entry); err != nil {
			return fmt.Errorf("add %s: %w", entry.name, err)
		}
	}
	return zw.Close()
}

func addZipEntry(zw *zip.Writer, entry zipSource) error {
	header, err := zip.FileInfoHeader(entry.info)
	if err != nil {
		return err
	}
	header.Name = entry.name
	if entry.info.IsDir() {
		header.Method = zip.Store
		_, err := zw.CreateHeader(header)
		return err
	}
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	src, err := os.Open(entry.path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(w, src)
	return err
}

// Extract decompresses archive into a new directory beside it. An empty
// targetName defaults to the archive name without its archive extension.
func (e *Engine) Extract(ctx context.Context, archive paths.Path, targetName string) (_ paths.Path, err error) {
	defer e.timer("extract").Stop()

	info, err := os.Stat(archive.OS())
	if err != nil {
		return paths.Volumes, wrap("extract", err)
	}
	if info.IsDir() {
		return paths.Volumes, wrap("extract", fmt.Errorf("%w: %s is a directory", types.ErrInvalidPath, archive))
	}

	name := targetName
	if name == "" {
		name = TrimArchiveExt(archive.Base())
	}
	if err := utils.ValidateName(name); err != nil {
		return paths.Volumes, wrap("extract", err)
	}

	format, err := DetectFormat(archive)
	if err != nil {
		return paths.Volumes, wrap("extract", err)
	}

	target := archive.Parent().Join(name)
	if err := os.Mkdir(target.OS(), 0o755); err != nil {
		return paths.Volumes, wrap("extract", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(target.OS())
		}
	}()

	switch format {
	case FormatZip:
		err = e.extractZip(ctx, archive, target)
	default:
		err = e.extractTarFile(ctx, archive, target, format)
	}
	if err != nil {
		return paths.Volumes, wrap("extract", err)
	}

	e.log.Info("archive extracted",
		zap.String("archive", archive.String()),
		zap.String("target", target.String()),
		zap.String("format", string(format)))
	return target, nil
}

// DetectFormat sniffs the archive content, falling back to the file name
func DetectFormat(archive paths.Path) (ArchiveFormat, error) {
	mtype, err := mimetype.DetectFile(archive.OS())
	if err != nil {
		return "", types.Classify(err)
	}

	lower := strings.ToLower(archive.Base())
	for m := mtype; m != nil; m = m.Parent() {
		switch {
		case m.Is("application/zip"):
			return FormatZip, nil
		case m.Is("application/x-tar"):
			return FormatTar, nil
		case m.Is("application/gzip") && hasAnySuffix(lower, ".tar.gz", ".tgz"):
			return FormatTarGz, nil
		case m.Is("application/zstd") && hasAnySuffix(lower, ".tar.zst", ".tzst"):
			return FormatTarZst, nil
		}
	}

	switch {
	case hasAnySuffix(lower, ".zip"):
		return FormatZip, nil
	case hasAnySuffix(lower, ".tar"):
		return FormatTar, nil
	case hasAnySuffix(lower, ".tar.gz", ".tgz"):
		return FormatTarGz, nil
	case hasAnySuffix(lower, ".tar.zst", ".tzst"):
		return FormatTarZst, nil
	}
	return "", fmt.Errorf("%w: unrecognized archive %s (%s)", types.ErrNotSupported, archive.Base(), mtype.String())
}

// TrimArchiveExt strips a known archive extension, multi-part ones included
func TrimArchiveExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range []string{".tar.gz", ".tar.zst", ".tgz", ".tzst", ".tar", ".zip"} {
		if strings.HasSuffix(lower, ext) && len(name) > len(ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return paths.Stem(name)
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// safeJoin resolves an archive entry name below root. Absolute names and
// names that climb out of root are rejected.
func safeJoin(root, name string) (string, error) {
	native := filepath.FromSlash(name)
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) ||
		filepath.IsAbs(native) || filepath.VolumeName(native) != "" {
		return "", fmt.Errorf("%w: entry %q is an absolute path", types.ErrInvalidPath, name)
	}
	dest := filepath.Join(root, native)
	if dest != root && !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: entry %q escapes the target directory", types.ErrInvalidPath, name)
	}
	return dest, nil
}

func (e *Engine) extractZip(ctx context.Context, archive, target paths.Path) error {
	reader, err := zip.OpenReader(archive.OS())
	if err != nil {
		return err
	}
	defer reader.Close()

	root := target.OS()
	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		dest, err := safeJoin(root, file.Name)
		if err != nil {
			return err
		}

		mode := file.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
		case mode&fs.ModeSymlink != 0:
			e.log.Debug("skipping symlink entry", zap.String("entry", file.Name))
		default:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			src, err := file.Open()
			if err != nil {
				return err
			}
			err = writeExtracted(dest, src, mode.Perm())
			src.Close()
			if err != nil {
				return fmt.Errorf("extract %s: %w", file.Name, err)
			}
			os.Chtimes(dest, file.Modified, file.Modified)
		}
	}
	return nil
}

func (e *Engine) extractTarFile(ctx context.Context, archive, target paths.Path, format ArchiveFormat) error {
	f, err := os.Open(archive.OS())
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	switch format {
	case FormatTarGz:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	case FormatTarZst:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	root := target.OS()
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tar: %w", err)
		}

		dest, err := safeJoin(root, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return err
			}
			if err := writeExtracted(dest, tr, fs.FileMode(header.Mode).Perm()); err != nil {
				return fmt.Errorf("extract %s: %w", header.Name, err)
			}
			os.Chtimes(dest, header.AccessTime, header.ModTime)
		default:
			e.log.Debug("skipping tar entry",
				zap.String("entry", header.Name),
				zap.String("type", string(header.Typeflag)))
		}
	}
}

func writeExtracted(dest string, src io.Reader, perm fs.FileMode) (err error) {
	if perm == 0 {
		perm = 0o644
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, src)
	return err
}
