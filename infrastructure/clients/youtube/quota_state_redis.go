package youtube

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisQuotaState shares rotation bookkeeping between instances through Redis.
// Keys are namespaced by a fingerprint of the credential list so instances
// configured with different keys never share indices.
type RedisQuotaState struct {
	client       *redis.Client
	cursorKey    string
	exhaustedKey string
}

// NewRedisQuotaState creates shared state for the given credential list.
func NewRedisQuotaState(client *redis.Client, credentials []string) *RedisQuotaState {
	sum := sha256.Sum256([]byte(strings.Join(credentials, "\n")))
	namespace := "viewtrap:quota:" + hex.EncodeToString(sum[:])[:12]
	return &RedisQuotaState{
		client:       client,
		cursorKey:    namespace + ":cursor",
		exhaustedKey: namespace + ":exhausted",
	}
}

func (s *RedisQuotaState) Load(ctx context.Context) (int, []int, error) {
	var cursorCmd *redis.StringCmd
	var membersCmd *redis.StringSliceCmd
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		cursorCmd = pipe.Get(ctx, s.cursorKey)
		membersCmd = pipe.SMembers(ctx, s.exhaustedKey)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, nil, err
	}

	cursor := 0
	if v, err := cursorCmd.Result(); err == nil {
		cursor, _ = strconv.Atoi(v)
	}
	members, err := membersCmd.Result()
	if err != nil {
		return 0, nil, err
	}
	exhausted := make([]int, 0, len(members))
	for _, m := range members {
		if i, convErr := strconv.Atoi(m); convErr == nil {
			exhausted = append(exhausted, i)
		}
	}
	sort.Ints(exhausted)
	return cursor, exhausted, nil
}

func (s *RedisQuotaState) SetCursor(ctx context.Context, cursor int) error {
	return s.client.Set(ctx, s.cursorKey, cursor, 0).Err()
}

func (s *RedisQuotaState) MarkExhausted(ctx context.Context, index, next int) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, s.exhaustedKey, index)
		pipe.Set(ctx, s.cursorKey, next, 0)
		return nil
	})
	return err
}

func (s *RedisQuotaState) Reset(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.exhaustedKey)
		pipe.Set(ctx, s.cursorKey, 0, 0)
		return nil
	})
	return err
}
