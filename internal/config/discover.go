package config

import (
	"os"
	"path/filepath"
	"sort"
)

// DiscoverSQLFiles recursively walks each directory in dirs and returns
// every file with a .sql extension, sorted for deterministic ordering
// across repeated runs (spec §6's model/test discovery). A directory that
// doesn't exist is skipped rather than treated as an error, since
// project.tests is optional and commonly unset.
func DiscoverSQLFiles(dirs []string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if filepath.Ext(path) == ".sql" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}
