package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"VoiceAssistant/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, policy Policy) (*AssetStore, string) {
	t.Helper()
	root := t.TempDir()
	backend, err := NewLocal(root)
	require.NoError(t, err)
	return NewAssetStore(backend, policy, utils.New()), root
}

func audioPolicy() Policy {
	return Policy{Extensions: DefaultAudioExtensions, MaxSize: DefaultMaxUploadSize}
}

func TestDefaultLimit(t *testing.T) {
	assert.Equal(t, int64(50*1024*1024), DefaultMaxUploadSize)
}

func TestAccepts(t *testing.T) {
	store, _ := newTestStore(t, audioPolicy())

	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{"plain mp3", "beep.mp3", true},
		{"upper case", "BEEP.WAV", true},
		{"mixed case", "clip.OgG", true},
		{"final extension wins", "archive.mp3.exe", false},
		{"executable", "clip.exe", false},
		{"no extension", "clip", false},
		{"trailing dot", "clip.", false},
		{"dot only prefix", ".opus", true},
		{"image for audio policy", "face.png", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.Accepts(tt.filename))
		})
	}
}

func TestSaveAndRead(t *testing.T) {
	store, root := newTestStore(t, audioPolicy())
	ctx := context.Background()

	ref, err := store.Save(ctx, "scope1", bytes.NewReader([]byte("ID3 data")), "My Clip.MP3")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".mp3"))
	assert.NotContains(t, ref, "My Clip")

	data, err := store.Read(ctx, "scope1", ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3 data"), data)

	_, err = os.Stat(filepath.Join(root, "scope1", "assets", ref))
	assert.NoError(t, err)

	exists, err := store.Exists(ctx, "scope1", ref)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSaveGeneratesDistinctNames(t *testing.T) {
	store, _ := newTestStore(t, audioPolicy())
	ctx := context.Background()

	a, err := store.Save(ctx, "s", strings.NewReader("1"), "same.wav")
	require.NoError(t, err)
	b, err := store.Save(ctx, "s", strings.NewReader("2"), "same.wav")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	store, root := newTestStore(t, audioPolicy())

	_, err := store.Save(context.Background(), "scope1", strings.NewReader("MZ"), "clip.exe")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, statErr := os.Stat(filepath.Join(root, "scope1"))
	assert.True(t, os.IsNotExist(statErr), "nothing may be written for a rejected upload")
}

func TestSaveRejectsOversizedPayload(t *testing.T) {
	store, root := newTestStore(t, Policy{Extensions: DefaultAudioExtensions, MaxSize: 1024})

	_, err := store.Save(context.Background(), "scope1", bytes.NewReader(make([]byte, 1025)), "big.wav")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, statErr := os.Stat(filepath.Join(root, "scope1"))
	assert.True(t, os.IsNotExist(statErr))

	_, err = store.Save(context.Background(), "scope1", bytes.NewReader(make([]byte, 1024)), "exact.wav")
	assert.NoError(t, err)
}

func TestSaveRejectsPayloadOverDefaultLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates the full upload limit")
	}
	store, _ := newTestStore(t, audioPolicy())

	payload := io.LimitReader(zeroReader{}, DefaultMaxUploadSize+1)
	_, err := store.Save(context.Background(), "scope1", payload, "huge.flac")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSaveRejectsMissingFile(t *testing.T) {
	store, _ := newTestStore(t, audioPolicy())

	_, err := store.Save(context.Background(), "scope1", strings.NewReader("x"), "")
	assert.ErrorIs(t, err, ErrMissingFile)
	_, err = store.Save(context.Background(), "scope1", nil, "a.mp3")
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestReadRejectsTraversal(t *testing.T) {
	store, root := newTestStore(t, audioPolicy())
	ctx := context.Background()

	secret := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("top secret"), 0o644))

	for _, ref := range []string{
		"../../etc/passwd",
		"../secret.txt",
		"..",
		"/etc/passwd",
		"assets/../../secret.txt",
		`..\..\secret.txt`,
		"C:secret.txt",
		"a\x00.mp3",
		"",
	} {
		t.Run(ref, func(t *testing.T) {
			_, err := store.Read(ctx, "scope1", ref)
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestReadMissing(t *testing.T) {
	store, _ := newTestStore(t, audioPolicy())

	_, err := store.Read(context.Background(), "scope1", "nope.mp3")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestRemoveToleratesAbsence(t *testing.T) {
	store, _ := newTestStore(t, audioPolicy())
	ctx := context.Background()

	ref, err := store.Save(ctx, "scope1", strings.NewReader("x"), "a.ogg")
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, "scope1", ref))
	require.NoError(t, store.Remove(ctx, "scope1", ref))

	exists, err := store.Exists(ctx, "scope1", ref)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInvalidScopeRejected(t *testing.T) {
	store, _ := newTestStore(t, audioPolicy())

	_, err := store.Save(context.Background(), "../evil", strings.NewReader("x"), "a.mp3")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
