package config

import (
	"context"
	"fmt"

	"pg-portal/storage"
)

// OpenStorage connects the KV store selected by STORAGE_DRIVER.
// The returned close func releases the underlying connection.
func OpenStorage(ctx context.Context) (storage.KVStore, func() error, error) {
	noop := func() error { return nil }

	switch StorageDriver {
	case "", "file":
		s, err := storage.NewFileStore(StorageFile)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case "memory":
		return storage.NewMemoryStore(), noop, nil
	case "mongo", "mongodb":
		if err := InitMongoDB(); err != nil {
			return nil, nil, err
		}
		return storage.NewMongoStore(MongoStorageCollection), CloseMongoDB, nil
	case "postgres":
		if err := InitDB(); err != nil {
			return nil, nil, err
		}
		s := storage.NewPostgresStore(DB)
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		return s, CloseDB, nil
	case "redis":
		if err := InitRedis(); err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStore(RedisClient, "pg-portal:"), CloseRedis, nil
	default:
		return nil, nil, fmt.Errorf("config: unknown STORAGE_DRIVER %q", StorageDriver)
	}
}
