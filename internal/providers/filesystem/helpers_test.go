package filesystem

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	return New(opts)
}

// tempRoot returns a fresh directory as a Path with symlinks resolved
func tempRoot(t *testing.T) paths.Path {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return paths.FromOS(dir)
}

func writeFile(t *testing.T, p paths.Path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p.OS()), 0o755))
	require.NoError(t, os.WriteFile(p.OS(), []byte(content), 0o644))
}

func mkdir(t *testing.T, p paths.Path) {
	t.Helper()
	require.NoError(t, os.MkdirAll(p.OS(), 0o755))
}

func readFile(t *testing.T, p paths.Path) string {
	t.Helper()
	data, err := os.ReadFile(p.OS())
	require.NoError(t, err)
	return string(data)
}

func pathExists(p paths.Path) bool {
	_, err := os.Lstat(p.OS())
	return err == nil
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}
