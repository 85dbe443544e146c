package stitcher

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func names(files []FileEntry) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestListImagesNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"10.png", "2.png", "1.png", "notes.txt", "cover.JPG", "page 3.webp"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "5.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ListImages(dir)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}

	want := []string{"1.png", "2.png", "10.png", "cover.JPG", "page 3.webp"}
	if got := names(files); !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if files[0].Path != filepath.Join(dir, "1.png") {
		t.Fatalf("path = %q", files[0].Path)
	}
}

func TestListImagesUnreadableDirectory(t *testing.T) {
	_, err := ListImages(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrEnumeration) {
		t.Fatalf("err = %v, want ErrEnumeration", err)
	}
}

func TestDiscoverFoldersBatch(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "chapter 10", "01.png"))
	touch(t, filepath.Join(root, "chapter 2", "01.jpg"))
	touch(t, filepath.Join(root, "extras", "readme.md"))
	touch(t, filepath.Join(root, "chapter 2 [Stitched]", "01.png"))
	touch(t, filepath.Join(root, "cover.png"))

	s := DefaultSettings()
	s.InputPath = root
	s.BatchMode = true

	folders, err := discoverFolders(s)
	if err != nil {
		t.Fatalf("discoverFolders: %v", err)
	}
	want := []string{filepath.Join(root, "chapter 2"), filepath.Join(root, "chapter 10")}
	if !reflect.DeepEqual(folders, want) {
		t.Fatalf("folders = %v, want %v", folders, want)
	}
}

func TestDiscoverFoldersFallsBackToRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "01.png"))
	touch(t, filepath.Join(root, "empty", "notes.txt"))

	for _, batch := range []bool{true, false} {
		s := DefaultSettings()
		s.InputPath = root
		s.BatchMode = batch

		folders, err := discoverFolders(s)
		if err != nil {
			t.Fatalf("batch=%v: discoverFolders: %v", batch, err)
		}
		if !reflect.DeepEqual(folders, []string{root}) {
			t.Fatalf("batch=%v: folders = %v, want root only", batch, folders)
		}
	}
}
