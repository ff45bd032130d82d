package filesystem

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MockFileSystem is an in-memory FileSystem for testing
type MockFileSystem struct {
	mu          sync.RWMutex
	files       map[string]mockFile
	dirs        map[string]os.FileMode
	readErrors  map[string]error
	writeErrors map[string]error
	statErrors  map[string]error
	mkdirErrors map[string]error
	writes      int
}

type mockFile struct {
	data    []byte
	perm    os.FileMode
	modTime time.Time
}

// NewMockFileSystem creates a new MockFileSystem instance
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files:       make(map[string]mockFile),
		dirs:        make(map[string]os.FileMode),
		readErrors:  make(map[string]error),
		writeErrors: make(map[string]error),
		statErrors:  make(map[string]error),
		mkdirErrors: make(map[string]error),
	}
}

func (m *MockFileSystem) SetReadError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrors[path] = err
}

func (m *MockFileSystem) SetWriteError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErrors[path] = err
}

func (m *MockFileSystem) SetStatError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statErrors[path] = err
}

func (m *MockFileSystem) SetMkdirError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirErrors[path] = err
}

// AddFile adds a file to the mock filesystem
func (m *MockFileSystem) AddFile(path string, data []byte, perm os.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = mockFile{data: append([]byte(nil), data...), perm: perm, modTime: time.Now()}
}

// GetFile returns the content of a file, nil when missing
func (m *MockFileSystem) GetFile(path string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil
	}
	return append([]byte(nil), f.data...)
}

// FilePerm returns the permission a file was written with
func (m *MockFileSystem) FilePerm(path string) os.FileMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files[path].perm
}

// HasDir reports whether MkdirAll created path
func (m *MockFileSystem) HasDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.dirs[path]
	return ok
}

// WriteCount returns the number of successful writes
func (m *MockFileSystem) WriteCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.readErrors[path]; ok {
		return nil, err
	}
	if f, ok := m.files[path]; ok {
		return append([]byte(nil), f.data...), nil
	}
	return nil, os.ErrNotExist
}

func (m *MockFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.writeErrors[path]; ok {
		return err
	}
	m.files[path] = mockFile{data: append([]byte(nil), data...), perm: perm, modTime: time.Now()}
	m.writes++
	return nil
}

func (m *MockFileSystem) Stat(path string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.statErrors[path]; ok {
		return nil, err
	}
	if f, ok := m.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(f.data)), mode: f.perm, modTime: f.modTime}, nil
	}
	if perm, ok := m.dirs[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), mode: perm | os.ModeDir, isDir: true}, nil
	}
	return nil, os.ErrNotExist
}

func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.mkdirErrors[path]; ok {
		return err
	}
	m.dirs[path] = perm
	return nil
}

func (m *MockFileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if _, ok := m.dirs[path]; ok {
		delete(m.dirs, path)
		return nil
	}
	return os.ErrNotExist
}

// mockFileInfo implements os.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	isDir   bool
}

func (i *mockFileInfo) Name() string       { return i.name }
func (i *mockFileInfo) Size() int64        { return i.size }
func (i *mockFileInfo) Mode() os.FileMode  { return i.mode }
func (i *mockFileInfo) ModTime() time.Time { return i.modTime }
func (i *mockFileInfo) IsDir() bool        { return i.isDir }
func (i *mockFileInfo) Sys() interface{}   { return nil }
