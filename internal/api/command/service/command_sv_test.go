package commandService

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"VoiceAssistant/internal/api/command"
	commandRepository "VoiceAssistant/internal/api/command/repository"
	"VoiceAssistant/pkg/document"
	"VoiceAssistant/pkg/lock"
	"VoiceAssistant/pkg/storage"
	"VoiceAssistant/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScope = "scope-test"

type fixture struct {
	svc   ICommandService
	root  string
	audio *storage.AssetStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()

	docs, err := document.New(root)
	require.NoError(t, err)
	backend, err := storage.NewLocal(root)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	u := utils.New()
	audio := storage.NewAssetStore(backend, storage.Policy{
		Extensions: storage.DefaultAudioExtensions,
		MaxSize:    storage.DefaultMaxUploadSize,
	}, u)

	repo := commandRepository.New(docs, lock.NewLocal(), logger)
	return fixture{
		svc:   NewCommandService(logger, repo, audio, u),
		root:  root,
		audio: audio,
	}
}

func addReq(text, filename string) command.AddCommandRequest {
	return command.AddCommandRequest{
		Text:     text,
		Filename: filename,
		Audio:    strings.NewReader("audio-bytes"),
	}
}

func TestAddThenList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.svc.ListCommands(ctx, testScope)
	require.NoError(t, err)
	assert.Empty(t, empty)

	created, err := f.svc.AddCommand(ctx, testScope, addReq("  lights on ", "beep.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "lights on", created.Text)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	list, err := f.svc.ListCommands(ctx, testScope)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "lights on", list[0].Text)

	exists, err := f.audio.Exists(ctx, testScope, list[0].AudioRef)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAddRejectsEmptyText(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddCommand(context.Background(), testScope, addReq("   ", "beep.mp3"))
	assert.ErrorIs(t, err, command.ErrMissingText)
}

func TestAddRejectsMissingAudio(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddCommand(context.Background(), testScope, command.AddCommandRequest{Text: "x"})
	assert.ErrorIs(t, err, command.ErrMissingAudio)
}

func TestAddRejectsDisallowedExtension(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddCommand(context.Background(), testScope, addReq("run", "clip.exe"))
	assert.ErrorIs(t, err, storage.ErrUnsupportedFormat)

	_, statErr := os.Stat(filepath.Join(f.root, testScope, "assets"))
	assert.True(t, os.IsNotExist(statErr))

	list, err := f.svc.ListCommands(context.Background(), testScope)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteByTextThenNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.AddCommand(ctx, testScope, addReq("lights on", "beep.mp3"))
	require.NoError(t, err)

	removed, err := f.svc.DeleteCommand(ctx, testScope, command.DeleteCommandRequest{Text: "lights on"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	exists, err := f.audio.Exists(ctx, testScope, created.AudioRef)
	require.NoError(t, err)
	assert.False(t, exists, "audio file is removed with its command")

	_, err = f.svc.DeleteCommand(ctx, testScope, command.DeleteCommandRequest{Text: "lights on"})
	assert.ErrorIs(t, err, command.ErrCommandNotFound)

	list, err := f.svc.ListCommands(ctx, testScope)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteByIDRemovesOnlyFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.AddCommand(ctx, testScope, addReq("dup", "a.wav"))
	require.NoError(t, err)
	second, err := f.svc.AddCommand(ctx, testScope, addReq("dup", "b.wav"))
	require.NoError(t, err)

	_, err = f.svc.DeleteCommand(ctx, testScope, command.DeleteCommandRequest{Text: "dup"})
	require.NoError(t, err)

	list, err := f.svc.ListCommands(ctx, testScope)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	_, err = f.svc.DeleteCommand(ctx, testScope, command.DeleteCommandRequest{ID: first.ID})
	assert.ErrorIs(t, err, command.ErrCommandNotFound)

	_, err = f.svc.DeleteCommand(ctx, testScope, command.DeleteCommandRequest{ID: second.ID})
	assert.NoError(t, err)
}

func TestDeleteToleratesMissingAudio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.AddCommand(ctx, testScope, addReq("bye", "a.wav"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(f.root, testScope, "assets", created.AudioRef)))

	_, err = f.svc.DeleteCommand(ctx, testScope, command.DeleteCommandRequest{ID: created.ID})
	assert.NoError(t, err)
}

func TestDeleteRequiresKey(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.DeleteCommand(context.Background(), testScope, command.DeleteCommandRequest{})
	assert.ErrorIs(t, err, command.ErrMissingDeleteKey)
}

func TestMatchCommand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, ok, err := f.svc.MatchCommand(ctx, testScope, "anything")
	require.NoError(t, err)
	assert.False(t, ok, "empty store never matches")

	light, err := f.svc.AddCommand(ctx, testScope, addReq("turn on the light", "light.mp3"))
	require.NoError(t, err)
	_, err = f.svc.AddCommand(ctx, testScope, addReq("Hello", "hello.mp3"))
	require.NoError(t, err)

	got, ok, err := f.svc.MatchCommand(ctx, testScope, "turn on the light")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, light.ID, got.ID)

	got, ok, err = f.svc.MatchCommand(ctx, testScope, "hello there")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Hello", got.Text)

	_, ok, err = f.svc.MatchCommand(ctx, testScope, "goodbye")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchSkipsCommandsWithoutAudio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	broken, err := f.svc.AddCommand(ctx, testScope, addReq("lights", "a.mp3"))
	require.NoError(t, err)
	healthy, err := f.svc.AddCommand(ctx, testScope, addReq("lights on", "b.mp3"))
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(f.root, testScope, "assets", broken.AudioRef)))

	got, ok, err := f.svc.MatchCommand(ctx, testScope, "lights on please")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, healthy.ID, got.ID)
}

func TestConcurrentAddsAreNotLost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.AddCommand(ctx, testScope, addReq(fmt.Sprintf("command %d", i), "c.ogg"))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	list, err := f.svc.ListCommands(ctx, testScope)
	require.NoError(t, err)
	assert.Len(t, list, n)

	seen := make(map[string]bool, n)
	for _, c := range list {
		seen[c.Text] = true
	}
	assert.Len(t, seen, n)
}

func TestConcurrentAddAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var keep []string
	for i := 0; i < 10; i++ {
		c, err := f.svc.AddCommand(ctx, testScope, addReq(fmt.Sprintf("old %d", i), "o.mp3"))
		require.NoError(t, err)
		keep = append(keep, c.ID)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			_, err := f.svc.DeleteCommand(ctx, testScope, command.DeleteCommandRequest{ID: id})
			assert.NoError(t, err)
		}(keep[i])
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.AddCommand(ctx, testScope, addReq(fmt.Sprintf("new %d", i), "n.mp3"))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := f.svc.ListCommands(ctx, testScope)
	require.NoError(t, err)
	require.Len(t, list, 10)
	for _, c := range list {
		assert.True(t, strings.HasPrefix(c.Text, "new "), c.Text)
	}
}

func TestScopesAreIsolated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddCommand(ctx, "alice", addReq("hi", "a.mp3"))
	require.NoError(t, err)

	list, err := f.svc.ListCommands(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, ok, err := f.svc.MatchCommand(ctx, "bob", "hi")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadAsset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.AddCommand(ctx, testScope, addReq("play", "p.mp3"))
	require.NoError(t, err)

	data, err := f.svc.ReadAsset(ctx, testScope, created.AudioRef)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), data)

	_, err = f.svc.ReadAsset(ctx, testScope, "../../etc/passwd")
	assert.ErrorIs(t, err, storage.ErrInvalidPath)
}
