package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"VoiceAssistant/pkg/document"
)

const assetsDir = "assets"

type localBackend struct {
	root string
}

// NewLocal stores blobs at <root>/<scope>/assets/<name>.
func NewLocal(root string) (Backend, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &localBackend{root: abs}, nil
}

func (b *localBackend) path(scope, name string) (string, error) {
	if !document.ValidScope(scope) {
		return "", ErrInvalidPath
	}
	return filepath.Join(b.root, scope, assetsDir, name), nil
}

func (b *localBackend) Put(_ context.Context, scope, name string, data []byte) error {
	p, err := b.path(scope, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create asset directory: %w", err)
	}
	return document.WriteFileAtomic(p, data, 0o644)
}

func (b *localBackend) Get(_ context.Context, scope, name string) ([]byte, error) {
	p, err := b.path(scope, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	return data, nil
}

func (b *localBackend) Delete(_ context.Context, scope, name string) error {
	p, err := b.path(scope, name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove asset: %w", err)
	}
	return nil
}

func (b *localBackend) Exists(_ context.Context, scope, name string) (bool, error) {
	p, err := b.path(scope, name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat asset: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

func (b *localBackend) Ping(_ context.Context) error {
	info, err := os.Stat(b.root)
	if err != nil {
		return fmt.Errorf("stat storage root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root %s is not a directory", b.root)
	}
	return nil
}
