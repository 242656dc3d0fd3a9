// Package storage keeps uploaded binaries (audio clips, avatar images) owned
// by a scope.
package storage

import "context"

// Backend stores opaque blobs addressed by scope and name. Names reaching a
// backend have already been validated by AssetStore.
type Backend interface {
	Put(ctx context.Context, scope, name string, data []byte) error
	// Get returns ErrAssetNotFound when the blob does not exist.
	Get(ctx context.Context, scope, name string) ([]byte, error)
	// Delete succeeds when the blob is already absent.
	Delete(ctx context.Context, scope, name string) error
	Exists(ctx context.Context, scope, name string) (bool, error)
	Ping(ctx context.Context) error
}
