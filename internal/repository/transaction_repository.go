package repository

import (
	"errors"
	"strings"

	"github.com/checkout-next/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository 支付流水数据访问接口
type TransactionRepository interface {
	Create(txn *models.Transaction) error
	Update(txn *models.Transaction) error
	GetByID(id uint) (*models.Transaction, error)
	GetByUserAndID(userID, id uint) (*models.Transaction, error)
	GetLatestByUserAndOrder(userID, orderID uint) (*models.Transaction, error)
	List(filter TransactionListFilter) ([]models.Transaction, int64, error)
}

// GormTransactionRepository GORM 实现
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建支付流水仓库
func NewTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create 创建支付流水
func (r *GormTransactionRepository) Create(txn *models.Transaction) error {
	return r.db.Create(txn).Error
}

// Update 保存支付流水
func (r *GormTransactionRepository) Update(txn *models.Transaction) error {
	return r.db.Save(txn).Error
}

// GetByID 根据 ID 获取支付流水
func (r *GormTransactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// GetByUserAndID 获取指定用户的支付流水
func (r *GormTransactionRepository) GetByUserAndID(userID, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// GetLatestByUserAndOrder 获取用户某订单最近一次支付流水
func (r *GormTransactionRepository) GetLatestByUserAndOrder(userID, orderID uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.Where("user_id = ? AND order_id = ?", userID, orderID).Order("id DESC").First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// List 支付流水列表
func (r *GormTransactionRepository) List(filter TransactionListFilter) ([]models.Transaction, int64, error) {
	txns := make([]models.Transaction, 0)
	query := r.db.Model(&models.Transaction{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.OrderID > 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if mode := strings.TrimSpace(filter.Mode); mode != "" {
		query = query.Where("payment_mode = ?", mode)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("payment_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id DESC").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
