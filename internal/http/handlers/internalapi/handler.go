package internalapi

import (
	handlershared "github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/http/response"
	"github.com/checkout-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 服务间调用接口处理器（/internal）
type Handler struct {
	*provider.Container
}

// New 创建服务间调用处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// ReduceStockRequest 扣减库存请求
type ReduceStockRequest struct {
	Quantity int `json:"quantity"`
}

// GetProduct 按 ID 查询商品
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	product, err := h.InventoryService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// GetProductByName 按名称查询商品
func (h *Handler) GetProductByName(c *gin.Context) {
	product, err := h.InventoryService.GetProductByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// ReduceStock 扣减库存
func (h *Handler) ReduceStock(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req ReduceStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.InventoryService.ReduceStock(c.Request.Context(), id, req.Quantity); err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetCartItems 获取用户购物车项
func (h *Handler) GetCartItems(c *gin.Context) {
	uid, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	items, err := h.CartService.GetCartItemsByUserID(c.Request.Context(), uid)
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// GetCartID 获取用户购物车 ID
func (h *Handler) GetCartID(c *gin.Context) {
	uid, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	cartID, err := h.CartService.GetCartIDByUserID(c.Request.Context(), uid)
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"cart_id": cartID})
}

// CheckoutCart 扣减库存并清空购物车
func (h *Handler) CheckoutCart(c *gin.Context) {
	uid, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.CartService.ClearCartAndReduceStock(c.Request.Context(), uid); err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderByOrderID(c.Request.Context(), orderID)
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
