package models

import "time"

// ReconciliationIssue 待人工对账记录（结账扇出部分失败时生成）
type ReconciliationIssue struct {
	ID            uint       `gorm:"primarykey" json:"id"`                           // 主键
	Reason        string     `gorm:"type:varchar(50);index;not null" json:"reason"`  // 原因
	TransactionID uint       `gorm:"index" json:"transaction_id"`                    // 支付流水ID
	OrderID       uint       `gorm:"index" json:"order_id"`                          // 订单ID
	UserID        uint       `gorm:"index" json:"user_id"`                           // 用户ID
	Detail        string     `gorm:"type:text" json:"detail"`                        // 错误详情
	Status        string     `gorm:"type:varchar(20);index;not null" json:"status"`  // 状态（open/resolved）
	ResolvedAt    *time.Time `json:"resolved_at"`                                    // 处理时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                     // 更新时间
}

// TableName 指定表名
func (ReconciliationIssue) TableName() string {
	return "reconciliation_issues"
}
