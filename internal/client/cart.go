package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/models"
)

// CartClient 购物车服务 HTTP 客户端
type CartClient struct {
	*baseClient
}

// NewCartClient 创建购物车服务客户端
func NewCartClient(opts Options) (*CartClient, error) {
	base, err := newBaseClient(constants.ServiceCart, opts)
	if err != nil {
		return nil, err
	}
	return &CartClient{baseClient: base}, nil
}

// GetCartItemsByUserID 获取用户购物车项
func (c *CartClient) GetCartItemsByUserID(ctx context.Context, userID uint) ([]models.CartItem, error) {
	data, err := c.call(ctx, http.MethodGet, fmt.Sprintf("/internal/cart/users/%d/items", userID), nil)
	if err != nil {
		return nil, err
	}
	var items []models.CartItem
	if err := decodeData(c.service, data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetCartIDByUserID 获取用户购物车 ID
func (c *CartClient) GetCartIDByUserID(ctx context.Context, userID uint) (uint, error) {
	data, err := c.call(ctx, http.MethodGet, fmt.Sprintf("/internal/cart/users/%d/cart-id", userID), nil)
	if err != nil {
		return 0, err
	}
	var resp struct {
		CartID uint `json:"cart_id"`
	}
	if err := decodeData(c.service, data, &resp); err != nil {
		return 0, err
	}
	return resp.CartID, nil
}

// ClearCartAndReduceStock 结账：扣减库存并清空购物车
func (c *CartClient) ClearCartAndReduceStock(ctx context.Context, userID uint) error {
	_, err := c.call(ctx, http.MethodDelete, fmt.Sprintf("/internal/cart/users/%d/checkout", userID), nil)
	return err
}
