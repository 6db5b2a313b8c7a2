package shared

import (
	"errors"

	"github.com/checkout-next/internal/http/response"
	"github.com/checkout-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// 具体错误在前，分类错误在后
var specificErrorRules = []MappedError{
	{Target: service.ErrInvalidUserID, Code: response.CodeBadRequest, Key: "error.user_id_invalid"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: service.ErrInvalidProductName, Code: response.CodeBadRequest, Key: "error.product_name_invalid"},
	{Target: service.ErrInvalidPrice, Code: response.CodeBadRequest, Key: "error.price_invalid"},
	{Target: service.ErrInvalidAmount, Code: response.CodeBadRequest, Key: "error.amount_invalid"},
	{Target: service.ErrCardDetailsRequired, Code: response.CodeBadRequest, Key: "error.card_details_missing"},
	{Target: service.ErrUpiIDInvalid, Code: response.CodeBadRequest, Key: "error.upi_id_invalid"},
	{Target: service.ErrInvalidPaymentMode, Code: response.CodeBadRequest, Key: "error.payment_mode_invalid"},
	{Target: service.ErrTransactionNotPending, Code: response.CodeBadRequest, Key: "error.transaction_settled"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrCartNotFound, Code: response.CodeNotFound, Key: "error.cart_not_found"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrTransactionNotFound, Code: response.CodeNotFound, Key: "error.transaction_not_found"},
	{Target: service.ErrReconciliationNotFound, Code: response.CodeNotFound, Key: "error.reconcile_not_found"},
	{Target: service.ErrProductNameExists, Code: response.CodeConflict, Key: "error.product_name_exists"},
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrInsufficientStock, Code: response.CodeBadRequest, Key: "error.insufficient_stock"},
}

var classErrorRules = []MappedError{
	{Target: service.ErrCartOperationRejected, Code: response.CodeBadRequest, Key: "error.cart_rejected"},
	{Target: service.ErrOrderPlacement, Code: response.CodeBadRequest, Key: "error.order_placement"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrAlreadyExists, Code: response.CodeConflict, Key: "error.already_exists"},
}

// RespondServiceError 按统一错误分类返回响应。
// 下游失败与跨服务步骤失败优先于业务分类，避免把远端失败误报为本地参数错误。
func RespondServiceError(c *gin.Context, err error) {
	var downstream *service.DownstreamError
	switch {
	case errors.As(err, &downstream):
		if downstream.Transport() {
			RespondError(c, response.CodeServiceUnavailable, "error.downstream_unavailable", err)
		} else {
			RespondError(c, response.CodeBadGateway, "error.downstream_bad_gateway", err)
		}
		return
	case errors.Is(err, service.ErrQueueUnavailable):
		RespondError(c, response.CodeInternal, "error.queue_unavailable", err)
		return
	case errors.Is(err, service.ErrOperationFailed):
		respondErrorWithCause(c, response.CodeInternal, "error.operation_failed", err, causeKey(err))
		return
	case errors.Is(err, service.ErrPersistence):
		RespondError(c, response.CodeInternal, "error.persistence_failed", err)
		return
	}
	RespondWithMappedError(c, err, ConcatMappedErrors(specificErrorRules, classErrorRules), response.CodeInternal, "error.internal_error")
}

// causeKey 返回跨服务步骤失败中包裹的业务错误键，供调用方区分业务失败与服务故障
func causeKey(err error) string {
	if errors.Is(err, service.ErrPersistence) {
		return ""
	}
	for _, rule := range ConcatMappedErrors(specificErrorRules, classErrorRules) {
		if errors.Is(err, rule.Target) {
			return rule.Key
		}
	}
	return ""
}

// RespondWithMappedError 按规则表映射错误，未命中时使用兜底响应并记录原始错误。
func RespondWithMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
