package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/http/response"
	"github.com/checkout-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminListOrders 管理端订单列表（可按 user_id 过滤）
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	filter := repository.OrderListFilter{Page: page, PageSize: pageSize}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
			return
		}
		filter.UserID = uint(parsed)
	}
	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, handlershared.BuildPagination(page, pageSize, total))
}

// AdminListUserOrders 指定用户的订单列表
func (h *Handler) AdminListUserOrders(c *gin.Context) {
	userID, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.ListOrdersByUser(userID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, handlershared.BuildPagination(page, pageSize, total))
}
