package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the file that marks a project root.
const ManifestName = "chert.toml"

// FindManifest walks up from startDir to locate chert.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindRoot returns the directory containing chert.toml, if any.
func FindRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}
