package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocalDirName marks a project-local notebook.
const LocalDirName = ".ainotes"

// FindRoot looks upwards from startDir for a directory containing a
// .ainotes notebook and returns that notebook's path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		candidate := filepath.Join(dir, LocalDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s directory found above %s", LocalDirName, abs)
}
