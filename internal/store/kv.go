// Package store persists the operator's rate preferences in a key-value store.
package store

import (
	"context"
	"fmt"
)

// KV is the key-value surface rate persistence needs.
//
//go:generate mockgen -destination=mocks/mock_kv.go -source=kv.go KV
type KV interface {
	// Get returns false when the key is absent
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Backend kinds accepted by Open
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindRedis  = "redis"
)

// Options selects and configures a backend
type Options struct {
	Kind        string
	Path        string // file backend
	RedisAddr   string // redis backend
	RedisPrefix string // redis backend
}

// Open creates the backend described by opts. An empty kind opens memory.
func Open(opts Options) (KV, error) {
	switch opts.Kind {
	case "", KindMemory:
		return NewMemoryKV(), nil
	case KindFile:
		if opts.Path == "" {
			return nil, fmt.Errorf("file store requires a path")
		}
		return NewFileKV(opts.Path), nil
	case KindRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis store requires an address")
		}
		return NewRedisKV(opts.RedisAddr, opts.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q (expected memory, file or redis)", opts.Kind)
	}
}
