package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/http/response"
	"github.com/checkout-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminListPayments 支付流水列表
func (h *Handler) AdminListPayments(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	filter := repository.TransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		Mode:     strings.ToUpper(strings.TrimSpace(c.Query("mode"))),
		Status:   strings.TrimSpace(c.Query("status")),
	}
	var ok bool
	if filter.UserID, ok = parseOptionalUint(c, "user_id"); !ok {
		return
	}
	if filter.OrderID, ok = parseOptionalUint(c, "order_id"); !ok {
		return
	}
	txns, total, err := h.PaymentService.ListPayments(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, txns, handlershared.BuildPagination(page, pageSize, total))
}

// AdminListPaymentsByMode 按支付方式查询
func (h *Handler) AdminListPaymentsByMode(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	txns, total, err := h.PaymentService.ListPaymentsByMode(c.Param("mode"), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, txns, handlershared.BuildPagination(page, pageSize, total))
}

// AdminGetPayment 支付流水详情
func (h *Handler) AdminGetPayment(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	txn, err := h.PaymentService.GetPaymentByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, txn)
}

func parseOptionalUint(c *gin.Context, key string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(parsed), true
}
