// Package kv is the storage port behind the session store: a flat,
// string-keyed namespace of JSON-serialized values with last-write-wins
// semantics and no expiry. Adapters exist for memory, Redis and Postgres;
// handlers and services only ever see this interface.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound reports an absent key. Adapters translate their native
// "no rows"/"nil reply" conditions into it.
var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
