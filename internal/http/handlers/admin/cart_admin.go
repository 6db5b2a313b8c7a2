package admin

import (
	handlershared "github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AdminDeleteCart 删除购物车
func (h *Handler) AdminDeleteCart(c *gin.Context) {
	cartID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.CartService.DeleteCart(cartID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
