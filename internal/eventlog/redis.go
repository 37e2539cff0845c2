// Copyright 2026 The diffenc Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eventlog

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisEvaler abstracts the minimal surface this adapter needs from a Redis
// client. Implementations may wrap github.com/redis/go-redis/v9
// (Cmdable.Eval) or any equivalent.
type RedisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error)
}

// GoRedisEvaler wraps a real *redis.Client as a RedisEvaler.
type GoRedisEvaler struct{ c *redis.Client }

// NewGoRedisEvaler constructs a GoRedisEvaler against the given address
// (e.g. "127.0.0.1:6379").
func NewGoRedisEvaler(addr string) *GoRedisEvaler {
	return &GoRedisEvaler{c: redis.NewClient(&redis.Options{Addr: addr})}
}

func (g *GoRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	return g.c.Eval(ctx, script, keys, args...).Result()
}

// RedisEventLogger appends events idempotently using a Lua script: SETNX a
// per-(row id, event id) marker, and only on first application RPUSH the
// encoded event onto that row's durable log list. A TTL on the marker
// guards against unbounded growth from an unbounded stream of distinct
// event ids.
type RedisEventLogger struct {
	client    RedisEvaler
	markerTTL time.Duration
}

// NewRedisEventLogger constructs a RedisEventLogger. markerTTL <= 0 defaults
// to 24h, comfortably larger than any expected retry window.
func NewRedisEventLogger(client RedisEvaler, markerTTL time.Duration) *RedisEventLogger {
	if markerTTL <= 0 {
		markerTTL = 24 * time.Hour
	}
	return &RedisEventLogger{client: client, markerTTL: markerTTL}
}

const redisAppendScript = `
local logKey = KEYS[1]
local markerKey = KEYS[2]
local payload = ARGV[1]
local ttlSeconds = tonumber(ARGV[2])
local set = redis.call('SETNX', markerKey, 1)
if set == 1 then
  redis.call('RPUSH', logKey, payload)
  if ttlSeconds and ttlSeconds > 0 then
    redis.call('EXPIRE', markerKey, ttlSeconds)
  end
  return 1
else
  return 0
end
`

func rowLogKey(rowID uint64) string { return fmt.Sprintf("eventlog:row:%d", rowID) }
func markerKey(rowID uint64, eventID string) string {
	return fmt.Sprintf("eventlog:marker:%d:%s", rowID, eventID)
}

// AppendBatch appends every event exactly once, keyed by (row id, event id).
func (r *RedisEventLogger) AppendBatch(ctx context.Context, events []RowEvent) error {
	if err := validate(events); err != nil {
		return err
	}
	for _, e := range events {
		payload, err := encodeEvent(e)
		if err != nil {
			return fmt.Errorf("eventlog: redis encode row=%d event=%s: %w", e.RowID, e.EventID, err)
		}
		keys := []string{rowLogKey(uint64(e.RowID)), markerKey(uint64(e.RowID), e.EventID)}
		args := []interface{}{string(payload), int(r.markerTTL.Seconds())}
		if _, err := r.client.Eval(ctx, redisAppendScript, keys, args...); err != nil {
			return fmt.Errorf("eventlog: redis eval row=%d event=%s: %w", e.RowID, e.EventID, err)
		}
	}
	return nil
}
