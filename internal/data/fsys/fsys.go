// Package fsys provides the file-system implementations consumed by the
// resolver and walker.
package fsys

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing/fstest"
	"time"
)

// OS reads from the host file system.
type OS struct{}

func (OS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Memory is an in-memory file system keyed by absolute slash paths.
// Parent directories are synthesized from file paths.
type Memory struct {
	files fstest.MapFS
}

// NewMemory builds a Memory from path -> content pairs.
func NewMemory(files map[string]string) *Memory {
	m := &Memory{files: fstest.MapFS{}}
	for path, content := range files {
		m.WriteFile(path, content)
	}
	return m
}

func (m *Memory) WriteFile(path, content string) {
	m.files[memKey(path)] = &fstest.MapFile{
		Data:    []byte(content),
		Mode:    0o644,
		ModTime: time.Now(),
	}
}

// Chmod replaces the mode of an existing file. A mode without read bits
// makes ReadFile fail with fs.ErrPermission.
func (m *Memory) Chmod(path string, mode fs.FileMode) {
	if f, ok := m.files[memKey(path)]; ok {
		f.Mode = mode
	}
}

func (m *Memory) Remove(path string) {
	delete(m.files, memKey(path))
}

func (m *Memory) Stat(path string) (fs.FileInfo, error) {
	key := memKey(path)
	if !fs.ValidPath(key) {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrInvalid}
	}
	info, err := fs.Stat(m.files, key)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: unwrapPathError(err)}
	}
	return info, nil
}

func (m *Memory) ReadFile(path string) ([]byte, error) {
	key := memKey(path)
	if !fs.ValidPath(key) {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrInvalid}
	}
	if f, ok := m.files[key]; ok && f.Mode&0o444 == 0 {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
	}
	data, err := fs.ReadFile(m.files, key)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: unwrapPathError(err)}
	}
	return data, nil
}

func memKey(path string) string {
	key := strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
	if key == "" {
		return "."
	}
	return key
}

func unwrapPathError(err error) error {
	if pe, ok := err.(*fs.PathError); ok {
		return pe.Err
	}
	return err
}
