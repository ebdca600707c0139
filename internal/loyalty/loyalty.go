// Package loyalty keeps per-table loyalty point balances in redis.
// The store is optional: a nil *Store is a no-op, and order submission
// never fails because loyalty is unavailable.
package loyalty

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
}

func New(addr string) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Earn credits points to a table's balance. Zero or negative amounts
// are ignored.
func (s *Store) Earn(ctx context.Context, table, points int) error {
	if s == nil || points <= 0 {
		return nil
	}
	return s.client.IncrBy(ctx, key(table), int64(points)).Err()
}

// Balance returns a table's current point balance; a missing key reads
// as zero.
func (s *Store) Balance(ctx context.Context, table int) (int, error) {
	if s == nil {
		return 0, nil
	}
	points, err := s.client.Get(ctx, key(table)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return points, nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}

func key(table int) string {
	return fmt.Sprintf("loyalty:table:%d", table)
}
