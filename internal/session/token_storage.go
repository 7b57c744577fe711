package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=token_storage.go -destination=../mock/session/token_storage_mock.go -package=mock
// TokenStorage adalah durable storage untuk bearer token: satu key per portal
// session. Token yang hilang dari storage berarti "logged out".
type TokenStorage interface {
	Save(ctx context.Context, sid, token string, ttl time.Duration) error
	// Load mengembalikan "" tanpa error kalau token tidak ada.
	Load(ctx context.Context, sid string) (string, error)
	Delete(ctx context.Context, sid string) error
}

const tokenKeyPrefix = "portal:token:"

type redisTokenStorage struct {
	rdb *redis.Client
}

func NewRedisTokenStorage(rdb *redis.Client) TokenStorage {
	return &redisTokenStorage{rdb: rdb}
}

func (s *redisTokenStorage) Save(ctx context.Context, sid, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, tokenKeyPrefix+sid, token, ttl).Err()
}

func (s *redisTokenStorage) Load(ctx context.Context, sid string) (string, error) {
	token, err := s.rdb.Get(ctx, tokenKeyPrefix+sid).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (s *redisTokenStorage) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, tokenKeyPrefix+sid).Err()
}

// memoryTokenStorage dipakai di test dan di dev saat Redis tidak tersedia.
type memoryTokenStorage struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryTokenStorage() TokenStorage {
	return &memoryTokenStorage{tokens: make(map[string]string)}
}

func (s *memoryTokenStorage) Save(_ context.Context, sid, token string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sid] = token
	return nil
}

func (s *memoryTokenStorage) Load(_ context.Context, sid string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[sid], nil
}

func (s *memoryTokenStorage) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sid)
	return nil
}
