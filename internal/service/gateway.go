package service

import (
	"context"

	"github.com/checkout-next/internal/models"
)

// InventoryGateway 库存服务调用契约（进程内或 HTTP 实现）
type InventoryGateway interface {
	GetProductByID(ctx context.Context, productID uint) (*models.Product, error)
	GetProductByName(ctx context.Context, name string) (*models.Product, error)
	ReduceStock(ctx context.Context, productID uint, quantity int) error
}

// CartGateway 购物车服务调用契约
type CartGateway interface {
	GetCartItemsByUserID(ctx context.Context, userID uint) ([]models.CartItem, error)
	GetCartIDByUserID(ctx context.Context, userID uint) (uint, error)
	ClearCartAndReduceStock(ctx context.Context, userID uint) error
}

// OrderGateway 订单服务调用契约
type OrderGateway interface {
	GetOrderByOrderID(ctx context.Context, orderID uint) (*models.Order, error)
}
