package repositories

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCacheRepository — кеш в памяти процесса поверх go-cache.
// Используется в тестах и при развёртывании без Redis; безопасен
// для конкурентных чтений.
type MemoryCacheRepository struct {
	cache *gocache.Cache
}

func NewMemoryCacheRepository() CacheRepositoryInterface {
	return &MemoryCacheRepository{
		cache: gocache.New(gocache.NoExpiration, time.Minute*5),
	}
}

func (r *MemoryCacheRepository) Get(ctx context.Context, key string) (string, error) {
	value, found := r.cache.Get(key)
	if !found {
		return "", fmt.Errorf("ключ %q не найден в кеше", key)
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%v", value), nil
	}
	return s, nil
}

func (r *MemoryCacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	r.cache.Set(key, fmt.Sprintf("%v", value), expiration)
	return nil
}

func (r *MemoryCacheRepository) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		r.cache.Delete(key)
	}
	return nil
}
