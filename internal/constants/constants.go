package constants

// 服务名称常量
const (
	ServiceInventory = "inventory"
	ServiceCart      = "cart"
	ServiceOrder     = "order"
	ServicePayment   = "payment"
)

// 角色常量（由网关签发的身份令牌携带）
const (
	RoleAdmin    = "ADMIN"
	RoleBiller   = "BILLER"
	RoleCustomer = "CUSTOMER"
)

// 支付方式常量
const (
	PaymentModeCash = "CASH"
	PaymentModeCard = "CARD"
	PaymentModeUPI  = "UPI"
)

// 支付状态常量
const (
	PaymentStatusPending    = "Pending"
	PaymentStatusCompleted  = "Completed"
	PaymentStatusIncomplete = "Incomplete"
)

// 对账单状态常量
const (
	ReconciliationStatusOpen     = "open"
	ReconciliationStatusResolved = "resolved"
)

// 对账原因常量
const (
	ReconciliationReasonStockReduce = "stock_reduce_failed"
	ReconciliationReasonFinalSave   = "final_save_failed"
)

// 身份请求头
const (
	HeaderUserID        = "X-UserId"
	HeaderRole          = "X-Role"
	HeaderInternalToken = "X-Internal-Token"
)

// 队列相关常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskCheckoutReconcile = "checkout:reconcile"
)

// 缓存键前缀
const (
	CacheKeyOrderSnapshot = "order:snapshot"
)
