package public

import (
	handlershared "github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PlaceMyOrder 当前用户下单
func (h *Handler) PlaceMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.placeOrder(c, uid)
}

// BillerPlaceOrder 收银员为指定用户下单
func (h *Handler) BillerPlaceOrder(c *gin.Context) {
	uid, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	h.placeOrder(c, uid)
}

func (h *Handler) placeOrder(c *gin.Context, userID uint) {
	order, err := h.OrderService.PlaceOrder(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// ListMyOrders 当前用户订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.ListOrdersByUser(uid, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, handlershared.BuildPagination(page, pageSize, total))
}

// GetMyOrder 当前用户订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderByUser(uid, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelMyOrder 当前用户取消订单
func (h *Handler) CancelMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	h.cancelOrder(c, uid, orderID)
}

// BillerCancelOrder 收银员取消指定用户订单
func (h *Handler) BillerCancelOrder(c *gin.Context) {
	uid, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "order_id")
	if !ok {
		return
	}
	h.cancelOrder(c, uid, orderID)
}

func (h *Handler) cancelOrder(c *gin.Context, userID, orderID uint) {
	if err := h.OrderService.CancelOrder(c.Request.Context(), userID, orderID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetOrderByID 订单详情（admin-biller）
func (h *Handler) GetOrderByID(c *gin.Context) {
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderByOrderID(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
