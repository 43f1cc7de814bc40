package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory — локальный кэш ограниченного размера с фиксированным TTL.
//
// Значения хранятся в JSON, как и в Redis, чтобы оба хранилища
// вели себя одинаково. TTL задаётся при создании; аргумент expiration
// у Set игнорируется.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory создаёт кэш на capacity ключей с временем жизни ttl.
func NewMemory(capacity int, ttl time.Duration) *Memory {
	return &Memory{lru: expirable.NewLRU[string, []byte](capacity, nil, ttl)}
}

// Get читает значение по ключу в result. Возвращает false, если ключа нет или он истёк.
func (c *Memory) Get(_ context.Context, key string, result any) (bool, error) {
	const op = "cache.Memory.Get"
	val, ok := c.lru.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(val, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение.
func (c *Memory) Set(_ context.Context, key string, value any, _ time.Duration) error {
	const op = "cache.Memory.Set"
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.lru.Add(key, data)
	return nil
}

// Invalidate удаляет ключи.
func (c *Memory) Invalidate(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.lru.Remove(key)
	}
	return nil
}

// Len возвращает количество неистёкших ключей.
func (c *Memory) Len() int {
	return c.lru.Len()
}
