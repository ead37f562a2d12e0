package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemSinkWriteFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink()

	path := filepath.Join(dir, "out", "proto-server.hpp")
	content := []byte("#pragma once\n")
	if err := s.WriteFile(path, content); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content = %q, want %q", got, content)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestFilesystemSinkOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink()
	path := filepath.Join(dir, "artifact.cpp")

	if err := s.WriteFile(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(path, []byte("second")); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
}

// The rename-based write must not leave temp files around on success.
func TestFilesystemSinkLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink()

	if err := s.WriteFile(filepath.Join(dir, "a.hpp"), []byte("x")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.hpp" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v, want only a.hpp", names)
	}
}

func TestFilesystemSinkCustomMode(t *testing.T) {
	dir := t.TempDir()
	s := &FilesystemSink{Mode: 0600}
	path := filepath.Join(dir, "private.hpp")

	if err := s.WriteFile(path, []byte("x")); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()

	content := []byte("hello")
	if err := s.WriteFile("a.hpp", content); err != nil {
		t.Fatal(err)
	}

	// The sink must hold its own copy.
	content[0] = 'X'
	if got := s.Get("a.hpp"); string(got) != "hello" {
		t.Errorf("Get = %q, want %q", got, "hello")
	}

	// And hand out copies.
	got := s.Get("a.hpp")
	got[0] = 'Y'
	if again := s.Get("a.hpp"); string(again) != "hello" {
		t.Errorf("Get after mutation = %q, want %q", again, "hello")
	}

	if s.Get("missing.hpp") != nil {
		t.Error("Get(missing) != nil")
	}

	if err := s.WriteFile("b.cpp", []byte("world")); err != nil {
		t.Fatal(err)
	}
	files := s.Files()
	if len(files) != 2 {
		t.Errorf("Files() has %d entries, want 2", len(files))
	}
	if string(files["b.cpp"]) != "world" {
		t.Errorf("files[b.cpp] = %q", files["b.cpp"])
	}
}
