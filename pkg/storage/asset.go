package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"VoiceAssistant/pkg/utils"
)

const DefaultMaxUploadSize int64 = 50 * 1024 * 1024

var (
	DefaultAudioExtensions = []string{"mp3", "wav", "ogg", "aac", "m4a", "flac", "wma", "aiff", "alac", "opus"}
	DefaultImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}
)

type Policy struct {
	Extensions []string
	MaxSize    int64
}

// AssetStore applies an upload policy in front of a Backend and is the only
// place stored names are generated or accepted back from clients.
type AssetStore struct {
	backend    Backend
	utils      utils.IUtils
	extensions map[string]struct{}
	maxSize    int64
}

func NewAssetStore(backend Backend, policy Policy, u utils.IUtils) *AssetStore {
	exts := make(map[string]struct{}, len(policy.Extensions))
	for _, ext := range policy.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts[ext] = struct{}{}
		}
	}

	maxSize := policy.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}

	return &AssetStore{
		backend:    backend,
		utils:      u,
		extensions: exts,
		maxSize:    maxSize,
	}
}

// Accepts reports whether the extension after the final dot is allowed.
func (a *AssetStore) Accepts(filename string) bool {
	ext := utils.FileExtension(filename)
	if ext == "" {
		return false
	}
	_, ok := a.extensions[ext]
	return ok
}

// Save stores the payload under a fresh name and returns that name. Nothing
// is written when the filename or the size is rejected.
func (a *AssetStore) Save(ctx context.Context, scope string, r io.Reader, originalFilename string) (string, error) {
	if r == nil || strings.TrimSpace(originalFilename) == "" {
		return "", ErrMissingFile
	}
	if !a.Accepts(originalFilename) {
		return "", ErrUnsupportedFormat
	}

	data, err := io.ReadAll(io.LimitReader(r, a.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > a.maxSize {
		return "", ErrFileTooLarge
	}

	ref, err := a.utils.NewAssetName(originalFilename)
	if err != nil {
		return "", fmt.Errorf("generate asset name: %w", err)
	}

	if err := a.backend.Put(ctx, scope, ref, data); err != nil {
		return "", fmt.Errorf("store asset: %w", err)
	}
	return ref, nil
}

func (a *AssetStore) Remove(ctx context.Context, scope, ref string) error {
	if err := ValidateRef(ref); err != nil {
		return err
	}
	return a.backend.Delete(ctx, scope, ref)
}

func (a *AssetStore) Read(ctx context.Context, scope, ref string) ([]byte, error) {
	if err := ValidateRef(ref); err != nil {
		return nil, err
	}
	return a.backend.Get(ctx, scope, ref)
}

func (a *AssetStore) Exists(ctx context.Context, scope, ref string) (bool, error) {
	if err := ValidateRef(ref); err != nil {
		return false, err
	}
	return a.backend.Exists(ctx, scope, ref)
}

func (a *AssetStore) Ping(ctx context.Context) error {
	return a.backend.Ping(ctx)
}

// ValidateRef rejects anything that is not a plain file name.
func ValidateRef(ref string) error {
	switch {
	case ref == "", ref == ".":
		return ErrInvalidPath
	case strings.Contains(ref, ".."):
		return ErrInvalidPath
	case strings.ContainsAny(ref, "/\\\x00"):
		return ErrInvalidPath
	case len(ref) > 1 && ref[1] == ':':
		return ErrInvalidPath
	}
	return nil
}
