package indexedset

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// shardSize bounds how many heights one shard's Redis set holds.
const shardSize = 30_000_000

// RedisStore keeps a side index of indexed heights, sharded by
// (chain, height/shardSize), each shard backed by one Redis set. Grounded
// on compliance/internal/repository/redis.go's wrapper style and
// original_source/src/db/db.rs's get_indexed_blocks/store_indexed_blocks.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func shardKey(chain, shard uint64) string {
	return fmt.Sprintf("evmidx:indexed:%d:%d", chain, shard)
}

func (s *RedisStore) Load(ctx context.Context, chain uint64) (map[uint64]struct{}, error) {
	set := make(map[uint64]struct{})
	var cursor uint64
	pattern := fmt.Sprintf("evmidx:indexed:%d:*", chain)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("indexedset: scan chain %d: %w", chain, err)
		}
		for _, key := range keys {
			members, err := s.client.SMembers(ctx, key).Result()
			if err != nil {
				return nil, fmt.Errorf("indexedset: smembers %q: %w", key, err)
			}
			for _, m := range members {
				n, err := strconv.ParseUint(m, 10, 64)
				if err != nil {
					continue
				}
				set[n] = struct{}{}
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return set, nil
}

func shardOf(height uint64) uint64 {
	return height / shardSize
}

func (s *RedisStore) Mark(ctx context.Context, chain uint64, heights []uint64) error {
	if len(heights) == 0 {
		return nil
	}
	byShard := make(map[uint64][]interface{})
	for _, h := range heights {
		shard := shardOf(h)
		byShard[shard] = append(byShard[shard], h)
	}

	pipe := s.client.Pipeline()
	for shard, members := range byShard {
		pipe.SAdd(ctx, shardKey(chain, shard), members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("indexedset: mark chain %d: %w", chain, err)
	}
	return nil
}
