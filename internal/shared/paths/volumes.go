package paths

import (
	"os"
	"runtime"
)

// ListVolumes returns the volume roots shown at the pseudo-root
func ListVolumes() []Path {
	if runtime.GOOS != "windows" {
		return []Path{"/"}
	}

	volumes := []Path{}
	for drive := 'A'; drive <= 'Z'; drive++ {
		root := string(drive) + `:\`
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			volumes = append(volumes, FromOS(root))
		}
	}
	return volumes
}
