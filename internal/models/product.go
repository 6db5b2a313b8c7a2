package models

import "time"

// Product 商品库存表
type Product struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                      // 主键
	Name          string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`        // 商品名称（大小写不敏感唯一）
	Description   string    `gorm:"type:text" json:"description"`                              // 描述
	Category      string    `gorm:"type:varchar(100);index" json:"category"`                   // 分类名称
	Price         Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`        // 单价
	StockQuantity int       `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock"` // 库存数量（不允许为负）
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                                                // 更新时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
