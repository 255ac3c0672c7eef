package storage

import (
	"context"
	"errors"
)

// Keys the portal writes to durable storage.
const (
	KeyTenantToken = "authToken"
	KeyTenantUser  = "user"
	KeyAdminToken  = "adminAuthToken"
	KeyAdminUser   = "adminUser"
	KeyTheme       = "pg-mgmt-theme"
)

// ErrEmptyKey is returned when a store is asked for a blank key.
var ErrEmptyKey = errors.New("storage: empty key")

// KVStore is the durable string key-value store behind the portal sessions.
// Get reports whether the key exists; Delete of a missing key is not an error.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
