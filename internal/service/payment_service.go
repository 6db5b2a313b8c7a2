package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/logger"
	"github.com/checkout-next/internal/models"
	"github.com/checkout-next/internal/queue"
	"github.com/checkout-next/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var upiIDPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+$`)

// PaymentService 支付服务（Pending -> Completed / Incomplete 状态机）
type PaymentService struct {
	repo       repository.TransactionRepository
	orders     OrderGateway
	carts      CartGateway
	reconciler CheckoutReconciler
	now        func() time.Time
}

// NewPaymentService 创建支付服务
func NewPaymentService(repo repository.TransactionRepository, orders OrderGateway, carts CartGateway, reconciler CheckoutReconciler) *PaymentService {
	return &PaymentService{
		repo:       repo,
		orders:     orders,
		carts:      carts,
		reconciler: reconciler,
		now:        time.Now,
	}
}

// CardPaymentInput 刷卡支付输入
type CardPaymentInput struct {
	OrderID        uint
	ReceivedAmount decimal.Decimal
	CardNumber     string
	CardHolderName string
}

// UpiPaymentInput UPI 支付输入
type UpiPaymentInput struct {
	OrderID        uint
	ReceivedAmount decimal.Decimal
	UpiID          string
}

// CashPaymentInput 现金支付输入
type CashPaymentInput struct {
	OrderID        uint
	ReceivedAmount decimal.Decimal
}

// PayByCard 刷卡支付
func (s *PaymentService) PayByCard(ctx context.Context, input CardPaymentInput) (*models.Transaction, error) {
	cardNumber := strings.ReplaceAll(strings.TrimSpace(input.CardNumber), " ", "")
	holder := strings.TrimSpace(input.CardHolderName)
	if cardNumber == "" || holder == "" {
		return nil, ErrCardDetailsRequired
	}
	// 完整卡号不落库，只保存脱敏号与加盐哈希
	cardHash, err := bcrypt.GenerateFromPassword([]byte(cardNumber), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash card number: %w", err)
	}
	return s.pay(ctx, input.OrderID, constants.PaymentModeCard, input.ReceivedAmount, func(txn *models.Transaction) {
		txn.CardNumberMasked = maskCardNumber(cardNumber)
		txn.CardNumberHash = string(cardHash)
		txn.CardHolderName = holder
	})
}

// PayByUpi UPI 支付
func (s *PaymentService) PayByUpi(ctx context.Context, input UpiPaymentInput) (*models.Transaction, error) {
	upiID := strings.TrimSpace(input.UpiID)
	if upiID == "" || !upiIDPattern.MatchString(upiID) {
		return nil, ErrUpiIDInvalid
	}
	return s.pay(ctx, input.OrderID, constants.PaymentModeUPI, input.ReceivedAmount, func(txn *models.Transaction) {
		txn.UpiID = upiID
	})
}

// PayByCash 现金支付
func (s *PaymentService) PayByCash(ctx context.Context, input CashPaymentInput) (*models.Transaction, error) {
	return s.pay(ctx, input.OrderID, constants.PaymentModeCash, input.ReceivedAmount, nil)
}

// pay 统一支付流程：登记 -> 附加支付方式字段 -> 核验 -> 扇出清购物车扣库存 -> 最终保存
func (s *PaymentService) pay(ctx context.Context, orderID uint, mode string, received decimal.Decimal, attach func(txn *models.Transaction)) (*models.Transaction, error) {
	if received.IsNegative() || !models.HasMoneyPrecision(received) {
		return nil, ErrInvalidAmount
	}
	txn, err := s.ProceedTransaction(ctx, orderID, mode)
	if err != nil {
		return nil, err
	}
	if attach != nil {
		attach(txn)
	}
	if err := s.VerifyTransaction(txn, received); err != nil {
		return nil, err
	}
	if err := s.ClearCartAndUpdateInventory(ctx, txn); err != nil {
		s.report(ctx, constants.ReconciliationReasonStockReduce, txn, err)
		return nil, err
	}
	if err := s.repo.Update(txn); err != nil {
		logger.Errorw("payment_final_save_failed",
			"transaction_id", txn.ID,
			"order_id", txn.OrderID,
			"user_id", txn.UserID,
			"payment_status", txn.PaymentStatus,
			"error", err,
		)
		if txn.PaymentStatus == constants.PaymentStatusCompleted {
			s.report(ctx, constants.ReconciliationReasonFinalSave, txn, err)
		}
		return nil, operationFailed(fmt.Sprintf("save final state of transaction %d, outcome unconfirmed", txn.ID), err)
	}
	logger.Infow("payment_recorded",
		"transaction_id", txn.ID,
		"order_id", txn.OrderID,
		"user_id", txn.UserID,
		"payment_mode", txn.PaymentMode,
		"payment_status", txn.PaymentStatus,
		"balance_amount", txn.BalanceAmount.String(),
	)
	return txn, nil
}

// ProceedTransaction 读取订单并登记 Pending 支付流水
func (s *PaymentService) ProceedTransaction(ctx context.Context, orderID uint, mode string) (*models.Transaction, error) {
	if orderID == 0 {
		return nil, ErrInvalidInput
	}
	normalizedMode, ok := normalizePaymentMode(mode)
	if !ok {
		return nil, ErrInvalidPaymentMode
	}
	order, err := s.orders.GetOrderByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
		}
		if errors.Is(err, ErrDownstreamUnavailable) {
			return nil, operationFailed("fetch order details", err)
		}
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
	}

	txn := &models.Transaction{
		UserID:         order.UserID,
		OrderID:        order.ID,
		RequiredAmount: order.TotalBillPrice,
		ReceivedAmount: models.ZeroMoney(),
		BalanceAmount:  order.TotalBillPrice,
		PaymentMode:    normalizedMode,
		PaymentStatus:  constants.PaymentStatusPending,
		PaymentTime:    s.now(),
	}
	if err := s.repo.Create(txn); err != nil {
		return nil, operationFailed("save initial transaction", persistenceError("create transaction", err))
	}
	return txn, nil
}

// VerifyTransaction 核验实收金额，仅 Pending 可迁移
func (s *PaymentService) VerifyTransaction(txn *models.Transaction, received decimal.Decimal) error {
	return verifyTransaction(txn, received, s.now())
}

func verifyTransaction(txn *models.Transaction, received decimal.Decimal, at time.Time) error {
	if txn == nil {
		return ErrInvalidInput
	}
	if received.IsNegative() || !models.HasMoneyPrecision(received) {
		return ErrInvalidAmount
	}
	if txn.PaymentStatus != constants.PaymentStatusPending {
		return fmt.Errorf("%w: transaction %d is %s", ErrTransactionNotPending, txn.ID, txn.PaymentStatus)
	}
	receivedAmount := models.NewMoneyFromDecimal(received)
	txn.ReceivedAmount = receivedAmount
	txn.TransactionTime = &at
	if receivedAmount.GreaterThanOrEqual(txn.RequiredAmount.Decimal) {
		txn.BalanceAmount = models.ZeroMoney()
		txn.PaymentStatus = constants.PaymentStatusCompleted
		return nil
	}
	txn.BalanceAmount = txn.RequiredAmount.Minus(receivedAmount)
	txn.PaymentStatus = constants.PaymentStatusIncomplete
	return nil
}

// ClearCartAndUpdateInventory 支付完成时清空购物车并扣减库存，其余状态不做处理
func (s *PaymentService) ClearCartAndUpdateInventory(ctx context.Context, txn *models.Transaction) error {
	if txn == nil || txn.PaymentStatus != constants.PaymentStatusCompleted {
		return nil
	}
	if err := s.carts.ClearCartAndReduceStock(ctx, txn.UserID); err != nil {
		logger.Errorw("payment_clear_cart_failed",
			"transaction_id", txn.ID,
			"order_id", txn.OrderID,
			"user_id", txn.UserID,
			"error", err,
		)
		return operationFailed("clear cart and update inventory", err)
	}
	return nil
}

func (s *PaymentService) report(ctx context.Context, reason string, txn *models.Transaction, cause error) {
	if s.reconciler == nil || txn == nil {
		return
	}
	payload := queue.CheckoutReconcilePayload{
		Reason:        reason,
		TransactionID: txn.ID,
		OrderID:       txn.OrderID,
		UserID:        txn.UserID,
		Detail:        cause.Error(),
		OccurredAt:    s.now(),
	}
	if err := s.reconciler.Report(ctx, payload); err != nil {
		logger.Errorw("payment_reconcile_report_failed",
			"transaction_id", txn.ID,
			"reason", reason,
			"error", err,
		)
	}
}

func normalizePaymentMode(mode string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(mode)) {
	case constants.PaymentModeCash:
		return constants.PaymentModeCash, true
	case constants.PaymentModeCard:
		return constants.PaymentModeCard, true
	case constants.PaymentModeUPI:
		return constants.PaymentModeUPI, true
	default:
		return "", false
	}
}

// maskCardNumber 仅保留后四位
func maskCardNumber(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return strings.Repeat("*", len(cardNumber))
	}
	return strings.Repeat("*", len(cardNumber)-4) + cardNumber[len(cardNumber)-4:]
}
