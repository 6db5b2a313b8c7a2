package models

import "time"

// Order 订单表（创建后不可变，仅允许取消删除）
type Order struct {
	ID             uint      `gorm:"primarykey" json:"order_id"`                                   // 主键
	UserID         uint      `gorm:"index;not null" json:"user_id"`                                // 用户ID
	CartID         uint      `gorm:"index;not null" json:"cart_id"`                                // 来源购物车ID
	OrderDate      time.Time `gorm:"index;not null" json:"order_date"`                             // 下单时间
	TotalBillPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_bill_price"` // 订单总额（冻结）
	CreatedAt      time.Time `json:"created_at"`                                                   // 创建时间

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"` // 冻结订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
