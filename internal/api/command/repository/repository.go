package commandRepository

import (
	"context"
	"sync"

	"VoiceAssistant/internal/entity"
	"VoiceAssistant/pkg/document"
	"VoiceAssistant/pkg/lock"

	"github.com/sirupsen/logrus"
)

const (
	documentName  = "commands.json"
	lockKeyPrefix = "commands/"
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
	// NewClient binds a client to scope. With tx set, the scope is locked
	// until Commit or Rollback, so a read-modify-write cannot lose updates.
	NewClient(ctx context.Context, scope string, tx bool) (Client, error)
}

func (r *repository) NewClient(ctx context.Context, scope string, tx bool) (Client, error) {
	if !document.ValidScope(scope) {
		return Client{}, document.ErrInvalidScope
	}

	var commitFunc, rollbackFunc func() error

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
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Commands: &commandRepository{docs: r.docs, scope: scope, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Commands interface {
		GetCommands(ctx context.Context) ([]entity.Command, error)
		AppendCommand(ctx context.Context, cmd entity.Command) error
		// DeleteFirstMatch removes the first command whose id equals id, or,
		// when id is empty, whose text equals text exactly.
		DeleteFirstMatch(ctx context.Context, id, text string) (entity.Command, bool, error)
	}

	Commit   func() error
	Rollback func() error
}

type commandRepository struct {
	docs  *document.Store
	scope string
	log   *logrus.Logger
}
