package models

import "time"

// CartItem 购物车项
type CartItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                               // 主键
	CartID      uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`               // 购物车ID
	ProductID   uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`            // 商品ID
	ProductName string    `gorm:"type:varchar(200);not null" json:"product_name"`                     // 商品名称快照
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`            // 加入时单价
	Quantity    int       `gorm:"not null;check:quantity > 0" json:"quantity"`                        // 数量（不会以 0 存储）
	LineTotal   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"line_total"`            // 小计
	CreatedAt   time.Time `json:"created_at"`                                                         // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                                         // 更新时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
