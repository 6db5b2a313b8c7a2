package service

import (
	"fmt"

	"github.com/checkout-next/internal/models"
	"github.com/checkout-next/internal/repository"
)

// GetPaymentByID 获取支付流水（管理端）
func (s *PaymentService) GetPaymentByID(id uint) (*models.Transaction, error) {
	txn, err := s.repo.GetByID(id)
	if err != nil {
		return nil, persistenceError("get transaction", err)
	}
	if txn == nil {
		return nil, fmt.Errorf("%w: %d", ErrTransactionNotFound, id)
	}
	return txn, nil
}

// ListPaymentsByMode 按支付方式查询
func (s *PaymentService) ListPaymentsByMode(mode string, page, pageSize int) ([]models.Transaction, int64, error) {
	normalized, ok := normalizePaymentMode(mode)
	if !ok {
		return nil, 0, ErrInvalidPaymentMode
	}
	return s.ListPayments(repository.TransactionListFilter{Mode: normalized, Page: page, PageSize: pageSize})
}

// ListPayments 支付流水列表
func (s *PaymentService) ListPayments(filter repository.TransactionListFilter) ([]models.Transaction, int64, error) {
	txns, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, persistenceError("list transactions", err)
	}
	return txns, total, nil
}

// ListMyTransactions 获取用户自己的支付流水
func (s *PaymentService) ListMyTransactions(userID uint, page, pageSize int) ([]models.Transaction, int64, error) {
	if userID == 0 {
		return nil, 0, ErrInvalidUserID
	}
	return s.ListPayments(repository.TransactionListFilter{UserID: userID, Page: page, PageSize: pageSize})
}

// GetMyTransactionByID 获取用户自己的支付流水
func (s *PaymentService) GetMyTransactionByID(userID, id uint) (*models.Transaction, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	txn, err := s.repo.GetByUserAndID(userID, id)
	if err != nil {
		return nil, persistenceError("get transaction", err)
	}
	if txn == nil {
		return nil, fmt.Errorf("%w: %d of user %d", ErrTransactionNotFound, id, userID)
	}
	return txn, nil
}

// GetMyTransactionByOrderID 获取用户某订单最近一次支付流水
func (s *PaymentService) GetMyTransactionByOrderID(userID, orderID uint) (*models.Transaction, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	if orderID == 0 {
		return nil, ErrInvalidInput
	}
	txn, err := s.repo.GetLatestByUserAndOrder(userID, orderID)
	if err != nil {
		return nil, persistenceError("get transaction", err)
	}
	if txn == nil {
		return nil, fmt.Errorf("%w: order %d of user %d", ErrTransactionNotFound, orderID, userID)
	}
	return txn, nil
}
