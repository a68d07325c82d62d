package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExt is the chert source file extension.
const SourceExt = ".ch"

// CollectSources reads every *.ch file under root, keyed by
// root-relative slash path. Hidden directories and common build
// folders are skipped. Paths come back sorted.
func CollectSources(root string) (map[string]string, []string, error) {
	sources := make(map[string]string)
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if len(name) > 1 && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if name == "target" || name == "build" || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != SourceExt {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", path, err)
		}
		key := filepath.ToSlash(rel)
		sources[key] = string(content)
		paths = append(paths, key)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %q: %w", root, err)
	}
	sort.Strings(paths)
	return sources, paths, nil
}
