package public

import (
	"strings"

	handlershared "github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表（admin-biller-customer）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	category := strings.TrimSpace(c.Query("category"))
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.InventoryService.List(category, search, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, handlershared.BuildPagination(page, pageSize, total))
}

// GetProduct 商品详情（biller-customer）
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	product, err := h.InventoryService.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// ListProductsByCategory 按分类名查询商品（customer）
func (h *Handler) ListProductsByCategory(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	products, err := h.InventoryService.ListByCategory(category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, products)
}

// GetProductByName 按名称查询商品（biller）
func (h *Handler) GetProductByName(c *gin.Context) {
	product, err := h.InventoryService.GetProductByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}
