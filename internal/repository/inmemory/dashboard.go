package inmemory

import (
	"context"
	"sync"
	"time"

	dashboarddomain "cendra-go/internal/domain/dashboard"
)

type InMemoryDashboardCache struct {
	mu    sync.RWMutex
	items map[int64]overviewItem
	now   func() time.Time
}

type overviewItem struct {
	value     dashboarddomain.Overview
	expiresAt time.Time
}

func NewInMemoryDashboardCache() *InMemoryDashboardCache {
	return &InMemoryDashboardCache{
		items: make(map[int64]overviewItem),
		now:   time.Now,
	}
}

func (c *InMemoryDashboardCache) GetByEntityID(_ context.Context, entityID int64) (*dashboarddomain.Overview, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[entityID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[entityID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, entityID)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := cloneOverview(item.value)
	return &value, true
}

func (c *InMemoryDashboardCache) SetByEntityID(ctx context.Context, entityID int64, overview *dashboarddomain.Overview, ttl time.Duration) {
	if overview == nil || ttl <= 0 {
		c.DeleteByEntityID(ctx, entityID)
		return
	}

	c.mu.Lock()
	c.items[entityID] = overviewItem{
		value:     cloneOverview(*overview),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryDashboardCache) DeleteByEntityID(_ context.Context, entityID int64) {
	c.mu.Lock()
	delete(c.items, entityID)
	c.mu.Unlock()
}

func cloneOverview(overview dashboarddomain.Overview) dashboarddomain.Overview {
	if overview.Accounts != nil {
		accounts := make([]dashboarddomain.AccountBalance, len(overview.Accounts))
		copy(accounts, overview.Accounts)
		overview.Accounts = accounts
	}
	return overview
}
