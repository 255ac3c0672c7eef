package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"pg-portal/config"
	"pg-portal/models"
	"pg-portal/storage"
)

// SessionKeys names the storage entries of one session.
type SessionKeys struct {
	Token    string
	Identity string
}

var (
	TenantKeys = SessionKeys{Token: storage.KeyTenantToken, Identity: storage.KeyTenantUser}
	AdminKeys  = SessionKeys{Token: storage.KeyAdminToken, Identity: storage.KeyAdminUser}
)

// SessionCodec adapts an identity type to the session store.
type SessionCodec[T any] struct {
	Decode    func(json.RawMessage) (*T, error)
	Normalize func(*T) *T
}

var (
	TenantCodec = SessionCodec[models.Tenant]{Decode: DecodeTenant, Normalize: NormalizeTenant}
	AdminCodec  = SessionCodec[models.Admin]{Decode: DecodeAdmin, Normalize: NormalizeAdmin}
)

// SessionListener receives every change of identity. identity is nil exactly when loggedIn is false.
type SessionListener[T any] func(identity *T, loggedIn bool)

// SessionStore owns one signed-in identity and its bearer token.
// Identity and logged-in flag are always updated together under one lock.
type SessionStore[T any] struct {
	name      string
	kv        storage.KVStore
	keys      SessionKeys
	codec     SessionCodec[T]
	validator *TokenValidator
	log       *logrus.Entry

	mu        sync.RWMutex
	current   *T
	loggedIn  bool
	listeners map[int]SessionListener[T]
	nextID    int
}

type (
	TenantSession = SessionStore[models.Tenant]
	AdminSession  = SessionStore[models.Admin]
)

// NewSessionStore builds a store and restores any persisted session from kv.
func NewSessionStore[T any](ctx context.Context, name string, kv storage.KVStore, keys SessionKeys, codec SessionCodec[T], validator *TokenValidator) *SessionStore[T] {
	s := &SessionStore[T]{
		name:      name,
		kv:        kv,
		keys:      keys,
		codec:     codec,
		validator: validator,
		log:       config.Log.WithField("session", name),
		listeners: make(map[int]SessionListener[T]),
	}
	s.restore(ctx)
	return s
}

func NewTenantSession(ctx context.Context, kv storage.KVStore, validator *TokenValidator) *TenantSession {
	return NewSessionStore(ctx, "tenant", kv, TenantKeys, TenantCodec, validator)
}

func NewAdminSession(ctx context.Context, kv storage.KVStore, validator *TokenValidator) *AdminSession {
	return NewSessionStore(ctx, "admin", kv, AdminKeys, AdminCodec, validator)
}

func (s *SessionStore[T]) Name() string {
	return s.name
}

func (s *SessionStore[T]) restore(ctx context.Context) {
	token, hasToken, err := s.kv.Get(ctx, s.keys.Token)
	if err != nil {
		s.log.WithError(err).Error("❌ Failed to read stored token")
		return
	}
	raw, hasIdentity, err := s.kv.Get(ctx, s.keys.Identity)
	if err != nil {
		s.log.WithError(err).Error("❌ Failed to read stored identity")
		return
	}
	if !hasToken || !hasIdentity {
		return
	}

	identity, err := s.codec.Decode(json.RawMessage(raw))
	if err != nil || identity == nil {
		s.log.WithError(err).Warn("⚠️ Stored identity is unreadable, logging out")
		s.Logout(ctx)
		return
	}
	if !s.validator.Valid(token) {
		s.log.Info("⏰ Stored token expired, logging out")
		s.Logout(ctx)
		return
	}

	normalized := s.codec.Normalize(identity)
	s.publish(normalized, true)
	if err := s.Persist(ctx, normalized); err != nil {
		s.log.WithError(err).Warn("⚠️ Failed to rewrite restored identity")
	}
	s.log.Info("✅ Session restored")
}

// SetCurrent normalizes identity and makes it the signed-in identity.
// The caller persists the returned value.
func (s *SessionStore[T]) SetCurrent(identity *T) (*T, error) {
	normalized := s.codec.Normalize(identity)
	if normalized == nil {
		return nil, ErrNoIdentity
	}
	s.publish(normalized, true)
	return s.codec.Normalize(normalized), nil
}

// Current returns a copy of the signed-in identity, or nil.
func (s *SessionStore[T]) Current() *T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.codec.Normalize(s.current)
}

func (s *SessionStore[T]) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// Token reads the stored bearer token.
func (s *SessionStore[T]) Token(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, s.keys.Token)
	return token, err
}

// ValidToken returns the stored token when it is still valid.
// An expired or malformed token logs the session out.
func (s *SessionStore[T]) ValidToken(ctx context.Context) string {
	token, err := s.Token(ctx)
	if err != nil {
		s.log.WithError(err).Error("❌ Failed to read token")
		return ""
	}
	if token == "" {
		return ""
	}
	if !s.validator.Valid(token) {
		s.log.Info("⏰ Token expired, logging out")
		s.Logout(ctx)
		return ""
	}
	return token
}

// EnsureValid re-checks the stored token and logs out when it is missing or expired.
// A failed read reports false but keeps the session.
func (s *SessionStore[T]) EnsureValid(ctx context.Context) bool {
	token, err := s.Token(ctx)
	if err != nil {
		s.log.WithError(err).Error("❌ Failed to read token")
		return false
	}
	if token != "" && s.validator.Valid(token) {
		return true
	}
	if s.IsLoggedIn() || token != "" {
		s.Logout(ctx)
	}
	return false
}

// Persist writes identity to storage in canonical form.
func (s *SessionStore[T]) Persist(ctx context.Context, identity *T) error {
	normalized := s.codec.Normalize(identity)
	if normalized == nil {
		return ErrNoIdentity
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("encode %s identity: %w", s.name, err)
	}
	if err := s.kv.Set(ctx, s.keys.Identity, string(data)); err != nil {
		return fmt.Errorf("persist %s identity: %w", s.name, err)
	}
	return nil
}

// Establish stores the outcome of a successful auth exchange.
func (s *SessionStore[T]) Establish(ctx context.Context, token string, identity *T) (*T, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if s.codec.Normalize(identity) == nil {
		return nil, ErrNoIdentity
	}
	if err := s.kv.Set(ctx, s.keys.Token, token); err != nil {
		return nil, fmt.Errorf("persist %s token: %w", s.name, err)
	}
	normalized, err := s.SetCurrent(identity)
	if err != nil {
		return nil, err
	}
	if err := s.Persist(ctx, normalized); err != nil {
		return nil, err
	}
	s.log.Info("✅ Signed in")
	return normalized, nil
}

// Logout clears stored credentials and the in-memory identity.
// The in-memory session is cleared even when storage fails.
func (s *SessionStore[T]) Logout(ctx context.Context) error {
	errToken := s.kv.Delete(ctx, s.keys.Token)
	errIdentity := s.kv.Delete(ctx, s.keys.Identity)
	s.publish(nil, false)

	if err := errors.Join(errToken, errIdentity); err != nil {
		s.log.WithError(err).Error("❌ Failed to clear stored session")
		return err
	}
	return nil
}

// Subscribe registers fn and immediately calls it with the current state.
// The returned func removes the subscription.
func (s *SessionStore[T]) Subscribe(fn SessionListener[T]) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current, loggedIn := s.codec.Normalize(s.current), s.loggedIn
	s.mu.Unlock()

	fn(current, loggedIn)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore[T]) publish(identity *T, loggedIn bool) {
	s.mu.Lock()
	s.current = identity
	s.loggedIn = loggedIn && identity != nil
	listeners := make([]SessionListener[T], 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	snapshot, flag := s.codec.Normalize(s.current), s.loggedIn
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(s.codec.Normalize(snapshot), flag)
	}
}
