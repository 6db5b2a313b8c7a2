package public

import (
	"errors"

	handlershared "github.com/checkout-next/internal/http/handlers/shared"
	"github.com/checkout-next/internal/http/response"
	"github.com/checkout-next/internal/models"
	"github.com/checkout-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CardPaymentRequest 刷卡支付请求
type CardPaymentRequest struct {
	OrderID        uint         `json:"order_id" binding:"required"`
	ReceivedAmount models.Money `json:"received_amount"`
	CardNumber     string       `json:"card_number"`
	CardHolderName string       `json:"card_holder_name"`
}

// UpiPaymentRequest UPI 支付请求
type UpiPaymentRequest struct {
	OrderID        uint         `json:"order_id" binding:"required"`
	ReceivedAmount models.Money `json:"received_amount"`
	UpiID          string       `json:"upi_id"`
}

// CashPaymentRequest 现金支付请求
type CashPaymentRequest struct {
	OrderID        uint         `json:"order_id" binding:"required"`
	ReceivedAmount models.Money `json:"received_amount"`
}

// bindPaymentRequest 解析支付请求，金额精度错误单独提示
func bindPaymentRequest(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, models.ErrMoneyPrecision) {
			respondError(c, response.CodeBadRequest, "error.amount_invalid", nil)
			return false
		}
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return false
	}
	return true
}

// PayByCard 刷卡支付（biller-customer）
func (h *Handler) PayByCard(c *gin.Context) {
	var req CardPaymentRequest
	if !bindPaymentRequest(c, &req) {
		return
	}
	txn, err := h.PaymentService.PayByCard(c.Request.Context(), service.CardPaymentInput{
		OrderID:        req.OrderID,
		ReceivedAmount: req.ReceivedAmount.Decimal,
		CardNumber:     req.CardNumber,
		CardHolderName: req.CardHolderName,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, txn)
}

// PayByUpi UPI 支付（biller-customer）
func (h *Handler) PayByUpi(c *gin.Context) {
	var req UpiPaymentRequest
	if !bindPaymentRequest(c, &req) {
		return
	}
	txn, err := h.PaymentService.PayByUpi(c.Request.Context(), service.UpiPaymentInput{
		OrderID:        req.OrderID,
		ReceivedAmount: req.ReceivedAmount.Decimal,
		UpiID:          req.UpiID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, txn)
}

// PayByCash 现金支付（biller-customer）
func (h *Handler) PayByCash(c *gin.Context) {
	var req CashPaymentRequest
	if !bindPaymentRequest(c, &req) {
		return
	}
	txn, err := h.PaymentService.PayByCash(c.Request.Context(), service.CashPaymentInput{
		OrderID:        req.OrderID,
		ReceivedAmount: req.ReceivedAmount.Decimal,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, txn)
}

// ListMyTransactions 当前用户支付流水
func (h *Handler) ListMyTransactions(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	txns, total, err := h.PaymentService.ListMyTransactions(uid, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, txns, handlershared.BuildPagination(page, pageSize, total))
}

// GetMyTransaction 当前用户支付流水详情
func (h *Handler) GetMyTransaction(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	txn, err := h.PaymentService.GetMyTransactionByID(uid, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, txn)
}

// GetMyTransactionByOrder 当前用户某订单最近一次支付流水
func (h *Handler) GetMyTransactionByOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "order_id")
	if !ok {
		return
	}
	txn, err := h.PaymentService.GetMyTransactionByOrderID(uid, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, txn)
}
