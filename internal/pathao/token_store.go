package pathao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	
	"github.com/redis/go-redis/v9"
)

// Token is a cached Pathao bearer token. The zero value means no token.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ValidAt reports whether the token is still usable at now, leaving a five-minute margin.
func (t Token) ValidAt(now time.Time) bool {
	if t.AccessToken == "" {
		return false
	}
	return t.ExpiresAt.Sub(now) > tokenExpiryMargin
}

// TokenStore caches the Pathao token. Load returns the zero Token when nothing is cached.
// Save receives the remaining lifetime measured on the client's clock.
type TokenStore interface {
	Load(ctx context.Context) (Token, error)
	Save(ctx context.Context, token Token, ttl time.Duration) error
}

type memoryTokenStore struct {
	mu    sync.RWMutex
	token Token
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{}
}

func (s *memoryTokenStore) Load(_ context.Context) (Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *memoryTokenStore) Save(_ context.Context, token Token, _ time.Duration) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

const DefaultTokenKey = "pathao:token"

// RedisTokenStore shares the Pathao token between processes.
type RedisTokenStore struct {
	redis *redis.Client
	key   string
}

func NewRedisTokenStore(redisDb *redis.Client, key string) *RedisTokenStore {
	if key == "" {
		key = DefaultTokenKey
	}
	return &RedisTokenStore{
		redis: redisDb,
		key:   key,
	}
}

func (s *RedisTokenStore) Load(ctx context.Context) (Token, error) {
	var token Token
	
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return token, nil
		}
		return token, fmt.Errorf("failed to get token from redis: %w", err)
	}
	
	if err = json.Unmarshal(data, &token); err != nil {
		return Token{}, fmt.Errorf("failed to unmarshal cached token: %w", err)
	}
	
	return token, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, token Token, ttl time.Duration) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	
	// Redis drops the key once the token itself has expired.
	if ttl <= 0 {
		return s.redis.Del(ctx, s.key).Err()
	}
	
	return s.redis.Set(ctx, s.key, data, ttl).Err()
}
