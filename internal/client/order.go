package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/models"
)

// OrderClient 订单服务 HTTP 客户端
type OrderClient struct {
	*baseClient
}

// NewOrderClient 创建订单服务客户端
func NewOrderClient(opts Options) (*OrderClient, error) {
	base, err := newBaseClient(constants.ServiceOrder, opts)
	if err != nil {
		return nil, err
	}
	return &OrderClient{baseClient: base}, nil
}

// GetOrderByOrderID 获取订单详情
func (c *OrderClient) GetOrderByOrderID(ctx context.Context, orderID uint) (*models.Order, error) {
	data, err := c.call(ctx, http.MethodGet, fmt.Sprintf("/internal/order/orders/%d", orderID), nil)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := decodeData(c.service, data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
