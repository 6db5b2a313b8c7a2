package cache

import (
	"context"
	"testing"
	"time"

	"github.com/checkout-next/internal/config"
	"github.com/checkout-next/internal/models"
)

func TestOrderSnapshotKey(t *testing.T) {
	if got := orderSnapshotKey(42); got != "order:snapshot:42" {
		t.Fatalf("unexpected snapshot key: %s", got)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	old := redisPrefix
	t.Cleanup(func() { redisPrefix = old })
	redisPrefix = "co"
	if got := buildKey(" order:snapshot:1 "); got != "co:order:snapshot:1" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := buildKey(""); got != "co" {
		t.Fatalf("blank key should fall back to prefix, got %s", got)
	}
}

func TestOrderSnapshotDisabledIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	ctx := context.Background()
	order := &models.Order{ID: 7, UserID: 1, TotalBillPrice: models.MustMoney("10.00")}
	if err := SetOrderSnapshot(ctx, order, time.Minute); err != nil {
		t.Fatalf("set snapshot should be a no-op, got %v", err)
	}
	cached, hit, err := GetOrderSnapshot(ctx, 7)
	if err != nil || hit || cached != nil {
		t.Fatalf("disabled cache should miss, got hit=%v order=%+v err=%v", hit, cached, err)
	}
	if err := DeleteOrderSnapshot(ctx, 7); err != nil {
		t.Fatalf("delete snapshot should be a no-op, got %v", err)
	}
}
