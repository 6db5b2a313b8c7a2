package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/models"
)

const defaultOrderSnapshotTTL = 10 * time.Minute

func orderSnapshotKey(orderID uint) string {
	return fmt.Sprintf("%s:%d", constants.CacheKeyOrderSnapshot, orderID)
}

// GetOrderSnapshot 读取订单快照（订单创建后不可变，可安全缓存）
func GetOrderSnapshot(ctx context.Context, orderID uint) (*models.Order, bool, error) {
	if orderID == 0 {
		return nil, false, nil
	}
	var order models.Order
	hit, err := GetJSON(ctx, orderSnapshotKey(orderID), &order)
	if err != nil || !hit {
		return nil, false, err
	}
	return &order, true, nil
}

// SetOrderSnapshot 写入订单快照
func SetOrderSnapshot(ctx context.Context, order *models.Order, ttl time.Duration) error {
	if order == nil || order.ID == 0 {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultOrderSnapshotTTL
	}
	return SetJSON(ctx, orderSnapshotKey(order.ID), order, ttl)
}

// DeleteOrderSnapshot 删除订单快照（订单取消时调用）
func DeleteOrderSnapshot(ctx context.Context, orderID uint) error {
	if orderID == 0 {
		return nil
	}
	return Del(ctx, orderSnapshotKey(orderID))
}
