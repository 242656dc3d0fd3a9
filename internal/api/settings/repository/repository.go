package settingsRepository

import (
	"context"
	"sync"

	"VoiceAssistant/internal/entity"
	"VoiceAssistant/pkg/document"
	"VoiceAssistant/pkg/lock"

	"github.com/sirupsen/logrus"
)

const (
	documentName  = "settings.json"
	lockKeyPrefix = "settings/"
)

func New(docs *document.Store, locker lock.ILocker, log *logrus.Logger) Repository {
	return &repository{
		docs:   docs,
		locker: locker,
		log:    log,
	}
}

type repository struct {
	docs   *document.Store
	locker lock.ILocker
	log    *logrus.Logger
}

type Repository interface {
	NewClient(ctx context.Context, scope string, tx bool) (Client, error)
}

func (r *repository) NewClient(ctx context.Context, scope string, tx bool) (Client, error) {
	if !document.ValidScope(scope) {
		return Client{}, document.ErrInvalidScope
	}

	commitFunc := func() error { return nil }
	rollbackFunc := func() error { return nil }

	if tx {
		unlock, err := r.locker.Lock(ctx, lockKeyPrefix+scope)
		if err != nil {
			return Client{}, err
		}

		var once sync.Once
		release := func() error {
			once.Do(unlock)
			return nil
		}
		commitFunc = release
		rollbackFunc = release
	}

	return Client{
		Settings: &settingsRepository{docs: r.docs, scope: scope, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Settings interface {
		// GetSettings reports found=false when the scope has no settings yet.
		GetSettings(ctx context.Context) (entity.Settings, bool, error)
		SaveSettings(ctx context.Context, s entity.Settings) error
	}

	Commit   func() error
	Rollback func() error
}

type settingsRepository struct {
	docs  *document.Store
	scope string
	log   *logrus.Logger
}
