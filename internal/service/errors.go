package service

import (
	"errors"
	"fmt"
)

// 错误分类（处理层依据分类映射业务码）
var (
	ErrNotFound              = errors.New("resource not found")
	ErrAlreadyExists         = errors.New("resource already exists")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrCartOperationRejected = errors.New("cart operation rejected")
	ErrOrderPlacement        = errors.New("order placement failed")
	ErrDownstreamUnavailable = errors.New("downstream unavailable")
	ErrPersistence           = errors.New("persistence failure")
	ErrOperationFailed       = errors.New("operation failed")
)

// 具体业务错误
var (
	ErrProductNotFound        = fmt.Errorf("%w: product", ErrNotFound)
	ErrCartNotFound           = fmt.Errorf("%w: cart", ErrNotFound)
	ErrCartItemNotFound       = fmt.Errorf("%w: cart item", ErrNotFound)
	ErrOrderNotFound          = fmt.Errorf("%w: order", ErrNotFound)
	ErrTransactionNotFound    = fmt.Errorf("%w: transaction", ErrNotFound)
	ErrReconciliationNotFound = fmt.Errorf("%w: reconciliation issue", ErrNotFound)

	ErrProductNameExists = fmt.Errorf("%w: product name", ErrAlreadyExists)

	ErrInvalidUserID         = fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	ErrInvalidQuantity       = fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	ErrInvalidProductName    = fmt.Errorf("%w: product name is required", ErrInvalidInput)
	ErrInvalidPrice          = fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	ErrInvalidAmount         = fmt.Errorf("%w: received amount must be non-negative with at most 2 decimal places", ErrInvalidInput)
	ErrCardDetailsRequired   = fmt.Errorf("%w: card number and holder name are required", ErrInvalidInput)
	ErrUpiIDInvalid          = fmt.Errorf("%w: upi id is required and must look like name@bank", ErrInvalidInput)
	ErrInvalidPaymentMode    = fmt.Errorf("%w: unknown payment mode", ErrInvalidInput)
	ErrTransactionNotPending = fmt.Errorf("%w: only pending transactions can be verified", ErrInvalidInput)

	ErrCartStockRejected = fmt.Errorf("%w: %w", ErrCartOperationRejected, ErrInsufficientStock)
	ErrCartEmpty         = fmt.Errorf("%w: cart is empty or absent", ErrOrderPlacement)

	ErrQueueUnavailable = fmt.Errorf("%w: queue unavailable", ErrOperationFailed)
)

// DownstreamError 下游服务调用失败
type DownstreamError struct {
	Service    string
	StatusCode int // 下游返回的状态码，0 表示传输层错误或熔断
	Err        error
}

func (e *DownstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s service responded %d: %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s service unreachable: %v", e.Service, e.Err)
}

func (e *DownstreamError) Unwrap() []error {
	return []error{ErrDownstreamUnavailable, e.Err}
}

// Transport 是否为传输层失败（连接错误、超时、熔断打开）
func (e *DownstreamError) Transport() bool {
	return e.StatusCode == 0
}

// persistenceError 包装本地存储错误
func persistenceError(action string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, action, err)
}

// operationFailed 包装跨服务步骤失败，保留原始错误链
func operationFailed(action string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrOperationFailed, action)
	}
	return fmt.Errorf("%w: %s: %w", ErrOperationFailed, action, err)
}

// IsTransportFailure 判断错误链中是否包含传输层下游失败
func IsTransportFailure(err error) bool {
	var downstream *DownstreamError
	if errors.As(err, &downstream) {
		return downstream.Transport()
	}
	return false
}
