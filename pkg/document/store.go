// Package document persists small JSON documents, one file per name, inside
// per-scope directories under a single root.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

const tempFilePrefix = ".doc-tmp-"

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	scopePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

	ErrInvalidScope = errors.New("invalid scope identifier")
)

type Store struct {
	root string

	mu      sync.Mutex
	ensured map[string]struct{}
}

// New prepares the root directory. It is the only place the root is created.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("document root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve document root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create document root: %w", err)
	}
	return &Store{root: abs, ensured: make(map[string]struct{})}, nil
}

func (s *Store) Root() string {
	return s.root
}

func ValidScope(scope string) bool {
	return scopePattern.MatchString(scope)
}

// ScopeDir returns the directory owning all state of scope.
func (s *Store) ScopeDir(scope string) (string, error) {
	if !ValidScope(scope) {
		return "", ErrInvalidScope
	}
	return filepath.Join(s.root, scope), nil
}

// EnsureScope creates the scope directory once. Concurrent callers for the
// same scope block on the store mutex and the second one is a no-op.
func (s *Store) EnsureScope(scope string) error {
	dir, err := s.ScopeDir(scope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ensured[scope]; ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create scope directory: %w", err)
	}
	s.ensured[scope] = struct{}{}
	return nil
}

// Read decodes the named document into v. A missing document reports
// found=false and no error.
func (s *Store) Read(scope, name string, v any) (bool, error) {
	dir, err := s.ScopeDir(scope)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read document %s: %w", name, err)
	}
	if len(data) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode document %s: %w", name, err)
	}
	return true, nil
}

// Write replaces the named document with the JSON encoding of v.
func (s *Store) Write(scope, name string, v any) error {
	if err := s.EnsureScope(scope); err != nil {
		return err
	}
	dir, _ := s.ScopeDir(scope)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document %s: %w", name, err)
	}

	return WriteFileAtomic(filepath.Join(dir, name), data, 0o644)
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over filename, so readers see either the old or the new content.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmpFile, err := os.CreateTemp(dir, tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}

// Ping verifies the root is still a writable directory.
func (s *Store) Ping() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("stat document root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("document root %s is not a directory", s.root)
	}

	probe, err := os.CreateTemp(s.root, tempFilePrefix+"ping-*")
	if err != nil {
		return fmt.Errorf("document root not writable: %w", err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}
