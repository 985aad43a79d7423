package rediscache

import (
	"context"
	"testing"
	"time"

	dashboarddomain "cendra-go/internal/domain/dashboard"
	"cendra-go/pkg/logger"
	"github.com/go-redis/redis/v8"
)

func TestDashboardKey(t *testing.T) {
	if got := dashboardKey(42); got != "cendra:dashboard:42" {
		t.Fatalf("expected namespaced key, got %q", got)
	}
}

func TestConnectRejectsInvalidURL(t *testing.T) {
	if _, err := Connect(context.Background(), "http://localhost:6379"); err == nil {
		t.Fatalf("expected error for non redis scheme")
	}
}

func TestDashboardCacheDegradesToMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := NewDashboardCache(client, logger.Nop())
	ctx := context.Background()

	cache.SetByEntityID(ctx, 1, &dashboarddomain.Overview{Members: 1}, time.Minute)
	if _, ok := cache.GetByEntityID(ctx, 1); ok {
		t.Fatalf("expected miss when redis is unreachable")
	}
	cache.DeleteByEntityID(ctx, 1)
}
