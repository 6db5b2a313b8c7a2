package public

import (
	"context"

	handlershared "github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/http/response"
	"github.com/checkout-next/internal/models"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity"`
}

// CartLineRequest 调整购物车项请求
type CartLineRequest struct {
	ProductName string `json:"product_name" binding:"required"`
}

type cartLineAction func(ctx context.Context, userID uint, productName string) (*models.Cart, error)

// GetMyCart 获取当前用户购物车
func (h *Handler) GetMyCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.respondCart(c, uid)
}

// AddToMyCart 当前用户加入购物车
func (h *Handler) AddToMyCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.addItem(c, uid)
}

// IncreaseMyItem 当前用户购物车项数量加一
func (h *Handler) IncreaseMyItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.adjustLine(c, uid, h.CartService.IncreaseQuantity)
}

// DecreaseMyItem 当前用户购物车项数量减一
func (h *Handler) DecreaseMyItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.adjustLine(c, uid, h.CartService.DecreaseQuantity)
}

// RemoveMyItem 当前用户移除购物车项
func (h *Handler) RemoveMyItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.removeItem(c, uid)
}

// ClearMyCart 清空当前用户购物车（不影响库存）
func (h *Handler) ClearMyCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.clearContents(c, uid)
}

// BillerGetCart 收银员查看指定用户购物车
func (h *Handler) BillerGetCart(c *gin.Context) {
	uid, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	h.respondCart(c, uid)
}

// BillerAddToCart 收银员为指定用户加入购物车
func (h *Handler) BillerAddToCart(c *gin.Context) {
	uid, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	h.addItem(c, uid)
}

// BillerIncreaseItem 收银员调整数量加一
func (h *Handler) BillerIncreaseItem(c *gin.Context) {
	uid, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	h.adjustLine(c, uid, h.CartService.IncreaseQuantity)
}

// BillerDecreaseItem 收银员调整数量减一
func (h *Handler) BillerDecreaseItem(c *gin.Context) {
	uid, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	h.adjustLine(c, uid, h.CartService.DecreaseQuantity)
}

// BillerRemoveItem 收银员移除购物车项
func (h *Handler) BillerRemoveItem(c *gin.Context) {
	uid, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	h.removeItem(c, uid)
}

// BillerClearCart 收银员清空指定用户购物车内容
func (h *Handler) BillerClearCart(c *gin.Context) {
	uid, ok := handlershared.ParseUintParam(c, "user_id")
	if !ok {
		return
	}
	h.clearContents(c, uid)
}

func (h *Handler) respondCart(c *gin.Context, userID uint) {
	cart, err := h.CartService.GetCart(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *Handler) addItem(c *gin.Context, userID uint) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	cart, err := h.CartService.AddItem(c.Request.Context(), userID, req.ProductName, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *Handler) adjustLine(c *gin.Context, userID uint, action cartLineAction) {
	var req CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	cart, err := action(c.Request.Context(), userID, req.ProductName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cart)
}

// removeItem 商品名称通过 query 传递（DELETE 请求不带 body）
func (h *Handler) removeItem(c *gin.Context, userID uint) {
	name := c.Query("product_name")
	if name == "" {
		respondError(c, response.CodeBadRequest, "error.product_name_invalid", nil)
		return
	}
	cart, err := h.CartService.RemoveItem(c.Request.Context(), userID, name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *Handler) clearContents(c *gin.Context, userID uint) {
	if err := h.CartService.ClearContentsOnly(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
