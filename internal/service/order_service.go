package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/checkout-next/internal/cache"
	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/models"
	"github.com/checkout-next/internal/repository"
)

// OrderService 订单服务（下单快照、查询与取消）
type OrderService struct {
	orderRepo repository.OrderRepository
	carts     CartGateway
	cacheTTL  time.Duration
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, carts CartGateway, cacheTTL time.Duration) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		carts:     carts,
		cacheTTL:  cacheTTL,
	}
}

// PlaceOrder 将用户购物车冻结为订单，不修改购物车
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}

	cartItems, err := s.carts.GetCartItemsByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrCartEmpty, userID)
		}
		return nil, fmt.Errorf("fetch cart items: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, fmt.Errorf("%w: user %d", ErrCartEmpty, userID)
	}

	cartID, err := s.carts.GetCartIDByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrCartNotFound, userID)
		}
		return nil, fmt.Errorf("fetch cart id: %w", err)
	}

	items, total := freezeCartItems(cartItems)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: user %d has no positive quantities", ErrCartEmpty, userID)
	}

	order := &models.Order{
		UserID:         userID,
		CartID:         cartID,
		OrderDate:      time.Now(),
		TotalBillPrice: total,
	}
	if err := s.orderRepo.CreateHeader(order); err != nil {
		return nil, persistenceError("create order", err)
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := s.orderRepo.CreateItems(items); err != nil {
		// 订单头已提交，不做回滚，保留记录供人工处理
		logger.Errorw("order_items_persist_failed",
			"order_id", order.ID,
			"user_id", userID,
			"items", len(items),
			"error", err,
		)
		return nil, operationFailed(fmt.Sprintf("persist items of order %d", order.ID), err)
	}
	order.Items = items

	if err := cache.SetOrderSnapshot(ctx, order, s.cacheTTL); err != nil {
		logger.Warnw("order_snapshot_cache_set_failed", "order_id", order.ID, "error", err)
	}
	logger.Infow("order_placed",
		"order_id", order.ID,
		"user_id", userID,
		"cart_id", cartID,
		"total_bill_price", order.TotalBillPrice.String(),
	)
	return order, nil
}

// freezeCartItems 冻结购物车项，跳过非正数量
func freezeCartItems(cartItems []models.CartItem) ([]models.OrderItem, models.Money) {
	items := make([]models.OrderItem, 0, len(cartItems))
	total := models.ZeroMoney()
	for _, cartItem := range cartItems {
		if cartItem.Quantity <= 0 {
			continue
		}
		lineTotal := cartItem.UnitPrice.Times(cartItem.Quantity)
		items = append(items, models.OrderItem{
			ProductID:   cartItem.ProductID,
			ProductName: cartItem.ProductName,
			UnitPrice:   cartItem.UnitPrice,
			Quantity:    cartItem.Quantity,
			LineTotal:   lineTotal,
		})
		total = total.Plus(lineTotal)
	}
	return items, total
}

// CancelOrder 取消订单（需为订单所有者），连同订单项一并删除
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint) error {
	if userID == 0 {
		return ErrInvalidUserID
	}
	if orderID == 0 {
		return ErrInvalidInput
	}
	order, err := s.orderRepo.GetByUserAndID(userID, orderID)
	if err != nil {
		return persistenceError("get order", err)
	}
	if order == nil {
		return fmt.Errorf("%w: order %d of user %d", ErrOrderNotFound, orderID, userID)
	}
	if err := s.orderRepo.DeleteWithItems(order.ID); err != nil {
		return persistenceError("delete order", err)
	}
	if err := cache.DeleteOrderSnapshot(ctx, order.ID); err != nil {
		logger.Warnw("order_snapshot_cache_delete_failed", "order_id", order.ID, "error", err)
	}
	logger.Infow("order_canceled", "order_id", order.ID, "user_id", userID)
	return nil
}
