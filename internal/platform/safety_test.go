package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDataPath(t *testing.T) {
	tempRoot := os.TempDir()
	devBase := filepath.Join(tempRoot, DevDirName)

	tests := []struct {
		name      string
		userPath  string
		forceTemp bool
		expected  string
	}{
		{"Normal Mode - Empty", "", false, "."},
		{"Normal Mode - Specific Path", "/srv/notes", false, "/srv/notes"},
		{"Dev Mode - Empty Path", "", true, filepath.Join(devBase, "default")},
		{"Dev Mode - Current Dir", ".", true, filepath.Join(devBase, "default")},
		{"Dev Mode - Relative Name", "my-notes", true, filepath.Join(devBase, "my-notes")},
		{"Dev Mode - Traversal Is Flattened", "../bad/path", true, filepath.Join(devBase, "path")},
		{"Dev Mode - Home Path", "/home/me/.local/share/ainotes", true, filepath.Join(devBase, "ainotes")},
		{"Dev Mode - Temp Dir Passes Through", filepath.Join(tempRoot, "my-test"), true, filepath.Join(tempRoot, "my-test")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveDataPath(tt.userPath, tt.forceTemp))
		})
	}
}

func TestIsDevRun(t *testing.T) {
	// Tests always run from a .test binary.
	assert.True(t, IsDevRun())
}
