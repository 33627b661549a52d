package adapter

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "option.go")
	content := "package fplib\n" + "type Option[T any] struct{}\n"
	writeTestFile(t, path, content)

	got, err := adapter.ReadFile(m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != content {
		t.Fatalf("ReadFile() = %q, want %q", string(got), content)
	}

	if _, err := adapter.ReadFile(m.Path(filepath.Join(root, "missing.go"))); !os.IsNotExist(err) {
		t.Fatalf("ReadFile() on missing file error = %v, want not-exist", err)
	}
}

func TestLocalSourceFSAdapter_ReadDir(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "b.go"), "package p\n")
	writeTestFile(t, filepath.Join(root, "a.go"), "package p\n")
	mustMkdir(t, filepath.Join(root, "nested"))

	names, err := adapter.ReadDir(m.Path(root))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	if want := []string{"a.go", "b.go"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("ReadDir() = %v, want %v", names, want)
	}

	if _, err := adapter.ReadDir(m.Path(filepath.Join(root, "absent"))); err == nil {
		t.Fatalf("ReadDir() expected error for missing directory")
	}
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	writeTestFile(t, path, "package main\n")

	info, err := adapter.FileInfo(m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() {
		t.Fatalf("FileInfo() reported file as directory")
	}

	dirInfo, err := adapter.FileInfo(m.Path(root))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if !dirInfo.IsDir() {
		t.Fatalf("FileInfo() reported directory as file")
	}
}

func TestLocalSourceFSAdapter_FindProjectRoot(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	goModDir := filepath.Join(root, "project")
	mustMkdir(t, goModDir)
	writeTestFile(t, filepath.Join(goModDir, "go.mod"), "module example.com/project\n")

	subDir := filepath.Join(goModDir, "sub", "pkg")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	t.Run("unbounded", func(t *testing.T) {
		got, err := adapter.FindProjectRoot(m.Path(filepath.Join(subDir, "file.go")), 0)
		if err != nil {
			t.Fatalf("FindProjectRoot() error = %v", err)
		}

		if got != m.Path(goModDir) {
			t.Fatalf("FindProjectRoot() = %s, want %s", got, goModDir)
		}
	})

	t.Run("within bound", func(t *testing.T) {
		got, err := adapter.FindProjectRoot(m.Path(filepath.Join(subDir, "file.go")), 3)
		if err != nil {
			t.Fatalf("FindProjectRoot() error = %v", err)
		}

		if got != m.Path(goModDir) {
			t.Fatalf("FindProjectRoot() = %s, want %s", got, goModDir)
		}
	})

	t.Run("beyond bound", func(t *testing.T) {
		_, err := adapter.FindProjectRoot(m.Path(filepath.Join(subDir, "file.go")), 2)
		if !errors.Is(err, ErrManifestNotFound) {
			t.Fatalf("FindProjectRoot() error = %v, want ErrManifestNotFound", err)
		}
	})

	t.Run("directory named go.mod is ignored", func(t *testing.T) {
		other := filepath.Join(root, "other")
		if err := os.MkdirAll(filepath.Join(other, "go.mod"), 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}

		_, err := adapter.FindProjectRoot(m.Path(filepath.Join(other, "x.go")), 1)
		if !errors.Is(err, ErrManifestNotFound) {
			t.Fatalf("FindProjectRoot() error = %v, want ErrManifestNotFound", err)
		}
	})
}

func TestLocalSourceFSAdapter_JoinPath(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	joined := adapter.JoinPath("/tmp", "project", "sub", "file.go")
	if string(joined) != filepath.Join("/tmp", "project", "sub", "file.go") {
		t.Fatalf("JoinPath() = %s, want %s", joined, filepath.Join("/tmp", "project", "sub", "file.go"))
	}

	if got := adapter.JoinPath("/tmp/project", ""); got != m.Path("/tmp/project") {
		t.Fatalf("JoinPath() with empty element = %s", got)
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	writeTestBytes(t, path, []byte(contents))
}

func writeTestBytes(t *testing.T, path string, contents []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent of %s: %v", path, err)
	}

	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}
