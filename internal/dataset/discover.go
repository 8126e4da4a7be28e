package dataset

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Resolve expands path into the CSV files it names. A regular file is
// returned as is; a directory yields every *.csv file beneath it, sorted.
func Resolve(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolve dataset")
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := DiscoverCSV(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Errorf("resolve dataset: no csv files under %s", path)
	}
	return files, nil
}

// DiscoverCSV returns the paths of all CSV files beneath root.
func DiscoverCSV(root string) ([]string, error) {
	entries := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".csv") {
			entries = append(entries, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "discover csv files")
	}
	sort.Strings(entries)
	return entries, nil
}
