package data

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChangeStream is the Redis stream consumers watch to invalidate caches.
const ChangeStream = "memberhub.changes"

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes one successful write.
type Change struct {
	Entity string
	Op     Op
	ID     string
	At     time.Time
}

func (c Change) values() map[string]any {
	return map[string]any{
		"entity": c.Entity,
		"op":     string(c.Op),
		"id":     c.ID,
		"time":   c.At.Unix(),
	}
}

func NewRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return redis.NewClient(opt), nil
}

// Publisher appends change events to ChangeStream.
type Publisher struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb, stream: ChangeStream, maxLen: 10000}
}

func (p *Publisher) Publish(ctx context.Context, ch Change) error {
	_, err := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: ch.values(),
	}).Result()
	return err
}
