package filesystem

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

func TestResolveNoCollision(t *testing.T) {
	root := tempRoot(t)
	n := NewCollisionNamer(nil)

	got, err := n.Resolve(root, "f.txt", false)
	require.NoError(t, err)
	assert.Equal(t, root.Join("f.txt"), got)
}

func TestResolveFileCollision(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{"with extension", "f.txt", "f - copy.txt"},
		{"double extension", "a.tar.gz", "a.tar - copy.gz"},
		{"no extension", "Makefile", "Makefile - copy"},
		{"dotfile", ".bashrc", ".bashrc - copy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tempRoot(t)
			writeFile(t, root.Join(tt.base), "x")

			got, err := NewCollisionNamer(nil).Resolve(root, tt.base, false)
			require.NoError(t, err)
			assert.Equal(t, root.Join(tt.want), got)
		})
	}
}

func TestResolveFileCollisionIsSinglePass(t *testing.T) {
	root := tempRoot(t)
	writeFile(t, root.Join("f.txt"), "x")
	writeFile(t, root.Join("f - copy.txt"), "x")

	_, err := NewCollisionNamer(nil).Resolve(root, "f.txt", false)
	assert.ErrorIs(t, err, types.ErrAlreadyExists)
	assert.False(t, pathExists(root.Join("f - copy - copy.txt")))
}

func TestResolveDirectoryCollision(t *testing.T) {
	root := tempRoot(t)
	mkdir(t, root.Join("D"))

	n := NewCollisionNamer(fixedClock(1000))
	first, err := n.Resolve(root, "D", true)
	require.NoError(t, err)
	assert.Equal(t, root.Join("D - copy at 1001"), first, "stamp is later than the call's own millisecond")

	// Same millisecond again still yields a distinct, later name
	second, err := n.Resolve(root, "D", true)
	require.NoError(t, err)
	assert.Equal(t, root.Join("D - copy at 1002"), second)
}

func TestResolveDirectorySuffixTaken(t *testing.T) {
	root := tempRoot(t)
	mkdir(t, root.Join("D"))
	mkdir(t, root.Join("D - copy at 6"))

	_, err := NewCollisionNamer(fixedClock(5)).Resolve(root, "D", true)
	assert.ErrorIs(t, err, types.ErrAlreadyExists)
}

func TestResolveDirectoryStampAfterCallStart(t *testing.T) {
	root := tempRoot(t)
	mkdir(t, root.Join("D"))
	n := NewCollisionNamer(nil)

	for i := 0; i < 50; i++ {
		start := time.Now().UnixMilli()
		got, err := n.Resolve(root, "D", true)
		require.NoError(t, err)

		stamp, err := strconv.ParseInt(strings.TrimPrefix(got.Base(), "D - copy at "), 10, 64)
		require.NoError(t, err)
		assert.Greater(t, stamp, start)
	}
}
