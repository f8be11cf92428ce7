package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOSFileSystemRoundTrip(t *testing.T) {
	dir := t.TempDir()
	var fs FileSystem = OSFileSystem{}

	path := filepath.Join(dir, "speed_data.json")
	if err := fs.WriteFile(path, []byte(`{"v1": 45}`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `{"v1": 45}` {
		t.Errorf("ReadFile = %q", data)
	}

	if !fs.Exists(path) {
		t.Error("Exists = false for written file")
	}
	if fs.Exists(filepath.Join(dir, "missing.json")) {
		t.Error("Exists = true for missing file")
	}
}

func TestOSFileSystemReadDirNames(t *testing.T) {
	dir := t.TempDir()
	var fs FileSystem = OSFileSystem{}

	for _, name := range []string{"car_2.jpg", "car_1.jpg", "notes.txt"} {
		if err := fs.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) failed: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := fs.ReadDirNames(dir)
	if err != nil {
		t.Fatalf("ReadDirNames failed: %v", err)
	}
	want := []string{"car_1.jpg", "car_2.jpg", "notes.txt"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("ReadDirNames mismatch (-want +got):\n%s", diff)
	}
}

func TestMemoryFileSystemRoundTrip(t *testing.T) {
	fs := NewMemoryFileSystem()

	if err := fs.WriteFile("data/helmet_data.json", []byte(`{}`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile("data/helmet_data.json")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `{}` {
		t.Errorf("ReadFile = %q", data)
	}

	if _, err := fs.ReadFile("data/missing.json"); err == nil {
		t.Error("expected error reading missing file")
	}
}

func TestMemoryFileSystemReadDirNames(t *testing.T) {
	fs := NewMemoryFileSystem()
	for _, name := range []string{"images/car_2.jpg", "images/car_1.jpg", "other/license_plate_9.jpg"} {
		if err := fs.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	names, err := fs.ReadDirNames("images")
	if err != nil {
		t.Fatalf("ReadDirNames failed: %v", err)
	}
	want := []string{"car_1.jpg", "car_2.jpg"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("ReadDirNames mismatch (-want +got):\n%s", diff)
	}

	if _, err := fs.ReadDirNames("nowhere"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestMemoryFileSystemStat(t *testing.T) {
	fs := NewMemoryFileSystem()
	if err := fs.WriteFile("a/b.json", []byte("abc"), 0o600); err != nil {
		t.Fatal(err)
	}

	fi, err := fs.Stat("a/b.json")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if fi.Size() != 3 {
		t.Errorf("Size = %d, want 3", fi.Size())
	}
	if fi.IsDir() {
		t.Error("IsDir = true for file")
	}

	di, err := fs.Stat("a")
	if err != nil {
		t.Fatalf("Stat dir failed: %v", err)
	}
	if !di.IsDir() {
		t.Error("IsDir = false for directory")
	}
}

func TestMemoryFileSystemMkdirAll(t *testing.T) {
	fs := NewMemoryFileSystem()
	if err := fs.MkdirAll("x/y/z", 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, dir := range []string{"x", "x/y", "x/y/z"} {
		if !fs.Exists(dir) {
			t.Errorf("Exists(%q) = false after MkdirAll", dir)
		}
	}
}
