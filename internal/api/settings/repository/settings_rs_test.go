package settingsRepository

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"VoiceAssistant/internal/entity"
	"VoiceAssistant/pkg/document"
	"VoiceAssistant/pkg/lock"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (Repository, *document.Store) {
	t.Helper()
	docs, err := document.New(t.TempDir())
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return New(docs, lock.NewLocal(), logger), docs
}

func TestGetSettingsMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	client, err := repo.NewClient(context.Background(), "s1", false)
	require.NoError(t, err)

	_, found, err := client.Settings.GetSettings(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveThenGet(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	client, err := repo.NewClient(ctx, "s1", true)
	require.NoError(t, err)
	require.NoError(t, client.Settings.SaveSettings(ctx, entity.Settings{Name: "Jarvis", Avatar: "a.png"}))
	require.NoError(t, client.Commit())

	got, found, err := client.Settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entity.Settings{Name: "Jarvis", Avatar: "a.png"}, got)
}

func TestLegacyKeysAreNormalized(t *testing.T) {
	repo, docs := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, docs.EnsureScope("old"))
	legacy := `{"bot_name": "語音助手", "avatar_url": "/static/images/avatar_1700000000_me.png"}`
	require.NoError(t, os.WriteFile(filepath.Join(docs.Root(), "old", documentName), []byte(legacy), 0o644))

	client, err := repo.NewClient(ctx, "old", false)
	require.NoError(t, err)

	got, found, err := client.Settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "語音助手", got.Name)
	assert.Equal(t, "avatar_1700000000_me.png", got.Avatar)
}

func TestInvalidScope(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.NewClient(context.Background(), "../etc", false)
	assert.ErrorIs(t, err, document.ErrInvalidScope)
}
