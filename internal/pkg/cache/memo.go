package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// Memo keeps calculated values in memory for a while, keyed by the inputs they were
// calculated from.
type Memo[T any] struct {
	// m is a mutex for MutexGetSet so that a value is calculated once per key
	m sync.Mutex

	c *cache.Cache
}

func NewMemo[T any](expire time.Duration) *Memo[T] {
	return &Memo[T]{
		c: cache.New(expire, expire*2),
	}
}

func (c *Memo[T]) Get(key string) (T, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// MutexGetSet returns the value under key, or calculates it with valueFunc and keeps
// it when the key is still missing once the lock is held. Errors are not kept.
func (c *Memo[T]) MutexGetSet(key string, valueFunc func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.m.Lock()
	defer c.m.Unlock()
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := valueFunc()
	if err != nil {
		return v, err
	}
	c.c.SetDefault(key, v)
	if l := log.Trace(); l.Enabled() {
		l.Str("key", key).Msg("memoized value")
	}
	return v, nil
}

// Flush drops every kept value.
func (c *Memo[T]) Flush() {
	c.c.Flush()
}

func (c *Memo[T]) Len() int {
	return c.c.ItemCount()
}
