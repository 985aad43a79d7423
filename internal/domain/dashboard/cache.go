package dashboard

import (
	"context"
	"time"
)

type Cache interface {
	GetByEntityID(ctx context.Context, entityID int64) (*Overview, bool)
	SetByEntityID(ctx context.Context, entityID int64, overview *Overview, ttl time.Duration)
	DeleteByEntityID(ctx context.Context, entityID int64)
}

type noopCache struct{}

func (noopCache) GetByEntityID(context.Context, int64) (*Overview, bool) {
	return nil, false
}

func (noopCache) SetByEntityID(context.Context, int64, *Overview, time.Duration) {}

func (noopCache) DeleteByEntityID(context.Context, int64) {}
