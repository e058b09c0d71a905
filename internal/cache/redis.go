package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/shop-api/internal/model"
)

// NewRedisClient 创建客户端并 PING 确认连通
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisProductCache 商品详情缓存，TTL 附加随机抖动避免集中失效
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisProductCache{client: client, ttl: ttl}
}

func (c *RedisProductCache) Get(ctx context.Context, slug string) (*model.Product, error) {
	data, err := c.client.Get(ctx, productKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product failed: %w", err)
	}
	return &p, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p *model.Product) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}
	jitter := time.Duration(rand.Int63n(int64(c.ttl/5) + 1))
	if err := c.client.Set(ctx, productKey(p.Slug), payload, c.ttl+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisProductCache) Delete(ctx context.Context, slugs ...string) error {
	if len(slugs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, productKey(s))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func productKey(slug string) string { return fmt.Sprintf("product:slug:%s", slug) }

// RedisCodeStore 验证码存储
type RedisCodeStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCodeStore(client *redis.Client, prefix string, ttl time.Duration) *RedisCodeStore {
	return &RedisCodeStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisCodeStore) Save(ctx context.Context, key, code string) error {
	return s.client.Set(ctx, s.prefix+key, code, s.ttl).Err()
}

// consumeScript 比对一致才删除，保证原子性
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

func (s *RedisCodeStore) Consume(ctx context.Context, key, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{s.prefix + key}, code).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
