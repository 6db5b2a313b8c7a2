package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/models"
)

// InventoryClient 库存服务 HTTP 客户端
type InventoryClient struct {
	*baseClient
}

// NewInventoryClient 创建库存服务客户端
func NewInventoryClient(opts Options) (*InventoryClient, error) {
	base, err := newBaseClient(constants.ServiceInventory, opts)
	if err != nil {
		return nil, err
	}
	return &InventoryClient{baseClient: base}, nil
}

// GetProductByID 按 ID 查询商品
func (c *InventoryClient) GetProductByID(ctx context.Context, productID uint) (*models.Product, error) {
	data, err := c.call(ctx, http.MethodGet, fmt.Sprintf("/internal/inventory/products/%d", productID), nil)
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := decodeData(c.service, data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductByName 按名称查询商品
func (c *InventoryClient) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	path := "/internal/inventory/products/by-name?name=" + url.QueryEscape(name)
	data, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := decodeData(c.service, data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ReduceStock 扣减库存
func (c *InventoryClient) ReduceStock(ctx context.Context, productID uint, quantity int) error {
	path := fmt.Sprintf("/internal/inventory/products/%d/reduce-stock", productID)
	_, err := c.call(ctx, http.MethodPut, path, map[string]int{"quantity": quantity})
	return err
}
