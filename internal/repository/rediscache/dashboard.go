package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	dashboarddomain "cendra-go/internal/domain/dashboard"
	"cendra-go/pkg/logger"
	"github.com/go-redis/redis/v8"
)

const dashboardKeyPrefix = "cendra:dashboard:"

// Connect parses a redis:// URL and checks the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// DashboardCache shares dashboard overviews between API instances. Redis
// failures degrade to cache misses.
type DashboardCache struct {
	client *redis.Client
	log    logger.Logger
}

func NewDashboardCache(client *redis.Client, log logger.Logger) *DashboardCache {
	return &DashboardCache{client: client, log: log}
}

func dashboardKey(entityID int64) string {
	return dashboardKeyPrefix + strconv.FormatInt(entityID, 10)
}

func (c *DashboardCache) GetByEntityID(ctx context.Context, entityID int64) (*dashboarddomain.Overview, bool) {
	payload, err := c.client.Get(ctx, dashboardKey(entityID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.InternalError("dashboard cache read failed", err, "entity_id", entityID)
		return nil, false
	}

	var overview dashboarddomain.Overview
	if err := json.Unmarshal(payload, &overview); err != nil {
		c.log.InternalError("dashboard cache decode failed", err, "entity_id", entityID)
		return nil, false
	}
	return &overview, true
}

func (c *DashboardCache) SetByEntityID(ctx context.Context, entityID int64, overview *dashboarddomain.Overview, ttl time.Duration) {
	if overview == nil || ttl <= 0 {
		c.DeleteByEntityID(ctx, entityID)
		return
	}

	payload, err := json.Marshal(overview)
	if err != nil {
		c.log.InternalError("dashboard cache encode failed", err, "entity_id", entityID)
		return
	}
	if err := c.client.Set(ctx, dashboardKey(entityID), payload, ttl).Err(); err != nil {
		c.log.InternalError("dashboard cache write failed", err, "entity_id", entityID)
	}
}

func (c *DashboardCache) DeleteByEntityID(ctx context.Context, entityID int64) {
	if err := c.client.Del(ctx, dashboardKey(entityID)).Err(); err != nil {
		c.log.InternalError("dashboard cache delete failed", err, "entity_id", entityID)
	}
}
