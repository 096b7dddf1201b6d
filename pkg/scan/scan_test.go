package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"
)

func TestList_FiltersJPGCaseInsensitive(t *testing.T) {
	fsys := fstest.MapFS{
		"root/a.jpg":  &fstest.MapFile{Data: []byte("a")},
		"root/A.JPG":  &fstest.MapFile{Data: []byte("A")},
		"root/b.png":  &fstest.MapFile{Data: []byte("b")},
		"root/c.jpeg": &fstest.MapFile{Data: []byte("c")},
		"root/d.Jpg":  &fstest.MapFile{Data: []byte("d")},
		"root/jpg":    &fstest.MapFile{Data: []byte("e")},
	}

	got, err := List(fsys, "root", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"A.JPG", "a.jpg", "d.Jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected result\n got: %#v\nwant: %#v", got, want)
	}
}

func TestList_DoesNotRecurse(t *testing.T) {
	fsys := fstest.MapFS{
		"root/top.jpg":          &fstest.MapFile{Data: []byte("a")},
		"root/sub/nested.jpg":   &fstest.MapFile{Data: []byte("b")},
		"root/folder.jpg/x.jpg": &fstest.MapFile{Data: []byte("c")},
	}

	got, err := List(fsys, "root", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"top.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected result\n got: %#v\nwant: %#v", got, want)
	}
}

func TestList_CustomExtensions(t *testing.T) {
	fsys := fstest.MapFS{
		"root/a.jpg":  &fstest.MapFile{Data: []byte("a")},
		"root/b.JPEG": &fstest.MapFile{Data: []byte("b")},
	}

	opts := Options{Extensions: []string{"jpeg", " .JPG ", ""}}
	got, err := List(fsys, "root", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a.jpg", "b.JPEG"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected result\n got: %#v\nwant: %#v", got, want)
	}
}

func TestList_EmptyDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"root/notes.txt": &fstest.MapFile{Data: []byte("a")},
	}

	got, err := List(fsys, "root", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no files, got %#v", got)
	}
}

func TestList_MissingDirectory(t *testing.T) {
	fsys := fstest.MapFS{}

	_, err := List(fsys, "root", DefaultOptions())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}

	var dirErr *DirectoryError
	if !errors.As(err, &dirErr) {
		t.Fatalf("expected *DirectoryError, got %T", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestList_FileIsNotDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"root": &fstest.MapFile{Data: []byte("x")},
	}

	_, err := List(fsys, "root", DefaultOptions())
	if !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory, got %v", err)
	}
}

func TestList_FollowsSymlinksToRegularFilesOnly(t *testing.T) {
	tmp := t.TempDir()
	other := t.TempDir()

	if err := os.WriteFile(filepath.Join(other, "real.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	links := map[string]string{
		"file.jpg":     filepath.Join(other, "real.jpg"),
		"folder.jpg":   other,
		"dangling.jpg": filepath.Join(other, "missing.jpg"),
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(tmp, name)); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}
	}

	got, err := List(os.DirFS(tmp), ".", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"file.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected result\n got: %#v\nwant: %#v", got, want)
	}
}
