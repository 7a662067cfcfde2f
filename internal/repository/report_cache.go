package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/transfer-backend/internal/config"
	"github.com/stemsi/transfer-backend/internal/model"
)

// ReportCache keeps each student's latest report in Redis and fans new
// reports out over the student's PubSub channel.
type ReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewReportCache creates a new ReportCache.
func NewReportCache(rdb *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached latest report, or nil on a miss.
func (c *ReportCache) Get(ctx context.Context, studentID int) (*model.EligibilityRecord, error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.StudentLatestReportKey(studentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec model.EligibilityRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &rec, nil
}

// setIfNotOlder writes ARGV[1] to KEYS[1] unless the cached record carries a
// higher version than ARGV[2]. ARGV[3] is the TTL in milliseconds; 0 keeps the
// key without expiry. Returns 1 when written.
var setIfNotOlder = redis.NewScript(`
local cur = redis.call("GET", KEYS[1])
if cur then
  local ok, doc = pcall(cjson.decode, cur)
  if ok and type(doc) == "table" then
    local v = tonumber(doc["version"])
    if v and v > tonumber(ARGV[2]) then
      return 0
    end
  end
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
  redis.call("SET", KEYS[1], ARGV[1], "PX", ttl)
else
  redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

// Set caches rec as the student's latest report unless a newer version is
// already cached. The compare and the write run as one script, so concurrent
// verifications cannot replace a newer report with an older one.
func (c *ReportCache) Set(ctx context.Context, rec *model.EligibilityRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	key := config.CacheKey.StudentLatestReportKey(rec.StudentID)
	return setIfNotOlder.Run(ctx, c.rdb, []string{key}, raw, rec.Version, c.ttl.Milliseconds()).Err()
}

// Publish announces a new report to websocket subscribers.
func (c *ReportCache) Publish(ctx context.Context, rec *model.EligibilityRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, config.CacheKey.StudentReportChannel(rec.StudentID), raw).Err()
}

// Subscribe opens the PubSub subscription for a student's report channel.
// The caller owns the returned subscription and must close it.
func (c *ReportCache) Subscribe(ctx context.Context, studentID int) *redis.PubSub {
	return c.rdb.Subscribe(ctx, config.CacheKey.StudentReportChannel(studentID))
}
