package models

import "time"

// Transaction 支付流水（一次支付尝试对应一条）
type Transaction struct {
	ID               uint       `gorm:"primarykey" json:"transaction_id"`                              // 主键
	UserID           uint       `gorm:"index;not null" json:"user_id"`                                 // 用户ID（取自订单）
	OrderID          uint       `gorm:"index;not null" json:"order_id"`                                // 订单ID
	RequiredAmount   Money      `gorm:"type:decimal(20,2);not null;default:0" json:"required_amount"`  // 应付金额（创建时拷贝自订单）
	ReceivedAmount   Money      `gorm:"type:decimal(20,2);not null;default:0" json:"received_amount"`  // 实收金额
	BalanceAmount    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"balance_amount"`   // 待补差额
	PaymentMode      string     `gorm:"type:varchar(10);index;not null" json:"payment_mode"`           // 支付方式（CASH/CARD/UPI）
	PaymentStatus    string     `gorm:"type:varchar(20);index;not null" json:"payment_status"`         // 支付状态
	PaymentTime      time.Time  `gorm:"not null" json:"payment_time"`                                  // 发起时间
	TransactionTime  *time.Time `json:"transaction_time"`                                              // 核验时间
	CardNumberMasked string     `gorm:"type:varchar(32)" json:"card_number,omitempty"`                 // 卡号（脱敏）
	CardNumberHash   string     `gorm:"type:varchar(100)" json:"-"`                                    // 卡号单向哈希（bcrypt 加盐，只能核对指定卡号，不能用于去重）
	CardHolderName   string     `gorm:"type:varchar(100)" json:"card_holder_name,omitempty"`           // 持卡人
	UpiID            string     `gorm:"type:varchar(100)" json:"upi_id,omitempty"`                     // UPI ID
	CreatedAt        time.Time  `json:"created_at"`                                                    // 创建时间
	UpdatedAt        time.Time  `json:"updated_at"`                                                    // 更新时间
}

// TableName 指定表名
func (Transaction) TableName() string {
	return "transactions"
}
