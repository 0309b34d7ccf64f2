// Package storage selects and opens a storage.Store backend by name.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/oskars/refinerywatch/internal/storage/files"
	"github.com/oskars/refinerywatch/internal/storage/memory"
	"github.com/oskars/refinerywatch/internal/storage/redis"
	"github.com/oskars/refinerywatch/internal/storage/sqlite"
	"github.com/oskars/refinerywatch/pkg/errors"
	store "github.com/oskars/refinerywatch/pkg/storage"
)

// Drivers.
const (
	DriverMemory = "memory"
	DriverFiles  = "files"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config selects a backend.
type Config struct {
	Driver string
	// Path is the directory (files) or database file (sqlite).
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open returns the configured store.
func Open(ctx context.Context, cfg Config) (store.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverMemory:
		return memory.New(), nil
	case "", DriverFiles:
		return files.New(cfg.Path)
	case DriverSQLite:
		return sqlite.New(cfg.Path)
	case DriverRedis:
		return redis.New(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	default:
		return nil, errors.NewConfigError("storage", fmt.Sprintf("unknown driver %q", cfg.Driver), nil)
	}
}
