package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/checkout-next/internal/constants"
	"github.com/checkout-next/internal/models"

	"gorm.io/gorm"
)

// ReconciliationRepository 对账记录数据访问接口
type ReconciliationRepository interface {
	Create(issue *models.ReconciliationIssue) error
	GetByID(id uint) (*models.ReconciliationIssue, error)
	FindOpen(reason string, transactionID uint) (*models.ReconciliationIssue, error)
	List(filter ReconciliationListFilter) ([]models.ReconciliationIssue, int64, error)
	MarkResolved(id uint, resolvedAt time.Time) (int64, error)
}

// GormReconciliationRepository GORM 实现
type GormReconciliationRepository struct {
	db *gorm.DB
}

// NewReconciliationRepository 创建对账记录仓库
func NewReconciliationRepository(db *gorm.DB) *GormReconciliationRepository {
	return &GormReconciliationRepository{db: db}
}

// Create 创建对账记录
func (r *GormReconciliationRepository) Create(issue *models.ReconciliationIssue) error {
	return r.db.Create(issue).Error
}

// GetByID 根据 ID 获取对账记录
func (r *GormReconciliationRepository) GetByID(id uint) (*models.ReconciliationIssue, error) {
	var issue models.ReconciliationIssue
	if err := r.db.First(&issue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

// FindOpen 查找同一流水、同一原因的未处理记录
func (r *GormReconciliationRepository) FindOpen(reason string, transactionID uint) (*models.ReconciliationIssue, error) {
	var issue models.ReconciliationIssue
	err := r.db.Where("reason = ? AND transaction_id = ? AND status = ?", reason, transactionID, constants.ReconciliationStatusOpen).
		First(&issue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

// List 对账记录列表
func (r *GormReconciliationRepository) List(filter ReconciliationListFilter) ([]models.ReconciliationIssue, int64, error) {
	issues := make([]models.ReconciliationIssue, 0)
	query := r.db.Model(&models.ReconciliationIssue{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if reason := strings.TrimSpace(filter.Reason); reason != "" {
		query = query.Where("reason = ?", reason)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id DESC").Find(&issues).Error; err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

// MarkResolved 标记为已处理，仅对 open 状态生效
func (r *GormReconciliationRepository) MarkResolved(id uint, resolvedAt time.Time) (int64, error) {
	result := r.db.Model(&models.ReconciliationIssue{}).
		Where("id = ? AND status = ?", id, constants.ReconciliationStatusOpen).
		Updates(map[string]interface{}{
			"status":      constants.ReconciliationStatusResolved,
			"resolved_at": resolvedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
