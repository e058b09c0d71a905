package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCodeStore 单实例部署且未启用 redis 时的验证码存储
type MemoryCodeStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	codes map[string]memoryCode
	now   func() time.Time
}

type memoryCode struct {
	code      string
	expiresAt time.Time
}

func NewMemoryCodeStore(ttl time.Duration) *MemoryCodeStore {
	return &MemoryCodeStore{ttl: ttl, codes: make(map[string]memoryCode), now: time.Now}
}

func (s *MemoryCodeStore) Save(_ context.Context, key, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, c := range s.codes {
		if now.After(c.expiresAt) {
			delete(s.codes, k)
		}
	}
	s.codes[key] = memoryCode{code: code, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *MemoryCodeStore) Consume(_ context.Context, key, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[key]
	if !ok {
		return false, nil
	}
	if s.now().After(c.expiresAt) {
		delete(s.codes, key)
		return false, nil
	}
	if c.code != code {
		return false, nil
	}
	delete(s.codes, key)
	return true, nil
}
