// Package lock serializes work on a key, such as all document mutations of
// one scope.
package lock

import (
	"context"
)

// ILocker hands out exclusive ownership of a key. The returned unlock func
// must be called exactly once; calling it more than once is a no-op.
type ILocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
