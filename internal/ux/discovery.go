package ux

import (
	"os"
	"path/filepath"
)

// DiscoverConfigFile walks up from start looking for .taskgraph/config.yaml.
// The search stops at the first directory containing .git or at the
// filesystem root. It returns "" when nothing is found.
func DiscoverConfigFile(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, ".taskgraph", "config.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		// Stop at git root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
