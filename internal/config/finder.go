package config

import (
	"os"
	"path/filepath"
)

// ProjectFileName is the project file the build system keeps its options in
const ProjectFileName = "platformio.ini"

// FindProjectConfig finds the project file by walking up directories
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, ProjectFileName)

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}
