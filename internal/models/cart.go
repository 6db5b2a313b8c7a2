package models

import "time"

// Cart 购物车（每个用户至多一个）
type Cart struct {
	ID          uint      `gorm:"primarykey" json:"cart_id"`                                // 主键
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`                      // 用户ID
	TotalAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"cart_total"` // 购物车总额
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                               // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
