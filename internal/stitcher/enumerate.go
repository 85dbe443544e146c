package stitcher

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"smartstitch/pkg/imgutil"
)

// ListImages returns the recognized image files directly inside dir in
// natural filename order. An unreadable directory is an enumeration error,
// never an empty result.
func ListImages(dir string) ([]FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, enumerationError(dir, err)
	}

	var files []FileEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		kind := imgutil.KindFromExt(filepath.Ext(e.Name()))
		if kind == imgutil.KindUnknown {
			continue
		}
		files = append(files, FileEntry{
			Path: filepath.Join(dir, e.Name()),
			Name: e.Name(),
			Kind: kind,
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return natural.Less(files[i].Name, files[j].Name)
	})
	return files, nil
}

// discoverFolders resolves the folders a run covers. Outside batch mode that
// is the input itself; in batch mode it is every direct subdirectory holding
// at least one image, falling back to the input when none qualifies.
// Folders written by earlier batch runs are never picked up as input.
func discoverFolders(s Settings) ([]string, error) {
	if !s.BatchMode {
		return []string{s.InputPath}, nil
	}

	entries, err := os.ReadDir(s.InputPath)
	if err != nil {
		return nil, enumerationError(s.InputPath, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasSuffix(e.Name(), stitchedSuffix) {
			continue
		}
		files, err := ListImages(filepath.Join(s.InputPath, e.Name()))
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return []string{s.InputPath}, nil
	}

	sort.Sort(natural.StringSlice(names))
	folders := make([]string, len(names))
	for i, name := range names {
		folders[i] = filepath.Join(s.InputPath, name)
	}
	return folders, nil
}
